package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is an account that organises chit groups.
type User struct {
	ID           uint                             `gorm:"primarykey" json:"id"`
	Name         datatypes.JSONType[TrackedValue] `gorm:"not null" json:"name"`
	Username     string                           `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Email        string                           `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone        string                           `gorm:"size:15;not null;uniqueIndex" json:"phone"`
	PasswordHash string                           `gorm:"size:255;not null" json:"-"`
	IsActive     bool                             `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time                        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
