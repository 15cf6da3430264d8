package models

import (
	"time"

	"gorm.io/datatypes"
)

// Member is a person on a user's roster who can hold tickets in groups.
type Member struct {
	ID        uint                             `gorm:"primarykey" json:"id"`
	UserID    uint                             `gorm:"not null;index" json:"user_id"`
	Name      datatypes.JSONType[TrackedValue] `gorm:"not null" json:"name"`
	Nickname  datatypes.JSONType[TrackedValue] `json:"nickname"`
	Mobile    datatypes.JSONType[TrackedValue] `json:"mobile"`
	UpiIDs    datatypes.JSONType[[]UpiID]      `gorm:"column:upi_ids" json:"upi_ids"`
	IsActive  bool                             `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time                        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                        `gorm:"autoUpdateTime" json:"updated_at"`
	User      *User                            `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Member) TableName() string {
	return "members"
}
