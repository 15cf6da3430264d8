package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
)

// ActionTypes lists every accepted audit action.
var ActionTypes = []string{ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionLogout}

// AuditLog records who changed what.
type AuditLog struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	UserID       *uint          `gorm:"index" json:"user_id"`
	ActionType   string         `gorm:"size:16;not null;index" json:"action_type"`
	ActionDetail string         `gorm:"not null" json:"action_detail"`
	TargetTable  string         `gorm:"column:table_name;size:64;not null;index" json:"table_name"`
	RecordID     string         `gorm:"size:64;not null;index" json:"record_id"`
	OldData      datatypes.JSON `json:"old_data"`
	NewData      datatypes.JSON `json:"new_data"`
	IPAddress    *string        `gorm:"size:64" json:"ip_address"`
	UserAgent    *string        `json:"user_agent"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
