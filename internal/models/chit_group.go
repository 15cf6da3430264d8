package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GroupStatusPending   = "PENDING"
	GroupStatusActive    = "ACTIVE"
	GroupStatusCancelled = "CANCELLED"
	GroupStatusCompleted = "COMPLETED"
)

// ChitGroup is one savings pool with a fixed number of tickets.
type ChitGroup struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	UserID           uint            `gorm:"not null;index" json:"user_id"`
	Name             string          `gorm:"size:128;not null" json:"name"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	TotalMembers     int             `gorm:"not null" json:"total_members"`
	MonthlyAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_amount"`
	DurationMonths   int             `gorm:"not null" json:"duration_months"`
	CommissionType   string          `gorm:"size:10;not null" json:"commission_type"` // PERCENT or FIXED
	CommissionValue  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"commission_value"`
	RoundOffValue    int64           `gorm:"not null" json:"round_off_value"`
	Status           string          `gorm:"size:16;not null;default:'PENDING';index" json:"status"`
	AuctionStartDate *time.Time      `json:"auction_start_date"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	User             *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ChitMembers      []ChitMember    `gorm:"foreignKey:ChitGroupID" json:"chit_members,omitempty"`
	Auctions         []Auction       `gorm:"foreignKey:ChitGroupID" json:"auctions,omitempty"`
}

func (ChitGroup) TableName() string {
	return "chit_groups"
}

// AllowedRoundOffValues lists the granularities a group may settle to.
var AllowedRoundOffValues = []int64{10, 50, 100}
