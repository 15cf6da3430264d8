package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CalculationData is the snapshot stored with every auction so later
// reads do not depend on the group's current configuration.
type CalculationData struct {
	TotalAmount         decimal.Decimal `json:"total_amount"`
	TotalMembers        int             `json:"total_members"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	DividendPerMember   decimal.Decimal `json:"dividend_per_member"`
	AmountToCollect     decimal.Decimal `json:"amount_to_collect"`
	DividendRoundingGap decimal.Decimal `json:"dividend_rounding_gap"`
	CommissionType      string          `json:"commission_type"`
	CommissionValue     decimal.Decimal `json:"commission_value"`
	RoundOffValue       int64           `json:"round_off_value"`
	OriginalBid         decimal.Decimal `json:"original_bid"`
	WinningAmount       decimal.Decimal `json:"winning_amount"`
	Commission          decimal.Decimal `json:"commission"`
	CarryPrevious       decimal.Decimal `json:"carry_previous"`
	RawDividend         decimal.Decimal `json:"raw_dividend"`
	RoundoffDividend    decimal.Decimal `json:"roundoff_dividend"`
	CarryNext           decimal.Decimal `json:"carry_next"`
}

// Auction is the settled result of one month of a group.
type Auction struct {
	ID                 uint                                `gorm:"primarykey" json:"id"`
	ChitGroupID        uint                                `gorm:"not null;uniqueIndex:idx_auctions_group_month" json:"chit_group_id"`
	MonthNumber        int                                 `gorm:"not null;uniqueIndex:idx_auctions_group_month" json:"month_number"`
	WinnerChitMemberID uint                                `gorm:"not null;index" json:"winner_chit_member_id"`
	OriginalBid        decimal.Decimal                     `gorm:"type:numeric(20,6);not null" json:"original_bid"`
	WinningAmount      decimal.Decimal                     `gorm:"type:numeric(20,6);not null" json:"winning_amount"`
	Commission         decimal.Decimal                     `gorm:"type:numeric(20,6);not null" json:"commission"`
	CarryPrevious      decimal.Decimal                     `gorm:"type:numeric(20,6);not null" json:"carry_previous"`
	RawDividend        decimal.Decimal                     `gorm:"type:numeric(20,6);not null" json:"raw_dividend"`
	RoundoffDividend   decimal.Decimal                     `gorm:"type:numeric(20,6);not null" json:"roundoff_dividend"`
	CarryNext          decimal.Decimal                     `gorm:"type:numeric(20,6);not null" json:"carry_next"`
	CalculationData    datatypes.JSONType[CalculationData] `json:"calculation_data"`
	CreatedAt          time.Time                           `gorm:"autoCreateTime" json:"created_at"`
	ChitGroup          *ChitGroup                          `gorm:"foreignKey:ChitGroupID" json:"chit_group,omitempty"`
	WinnerChitMember   *ChitMember                         `gorm:"foreignKey:WinnerChitMemberID" json:"winner_chit_member,omitempty"`
}

func (Auction) TableName() string {
	return "auctions"
}
