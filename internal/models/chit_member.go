package models

import "time"

// ChitMember is a ticket: one member's seat in one group.
type ChitMember struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	MemberID     uint       `gorm:"not null;index" json:"member_id"`
	ChitGroupID  uint       `gorm:"not null;uniqueIndex:idx_chit_members_group_ticket" json:"chit_group_id"`
	TicketNumber int        `gorm:"not null;uniqueIndex:idx_chit_members_group_ticket" json:"ticket_number"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Member       *Member    `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	ChitGroup    *ChitGroup `gorm:"foreignKey:ChitGroupID" json:"chit_group,omitempty"`
}

func (ChitMember) TableName() string {
	return "chit_members"
}
