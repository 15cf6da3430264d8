package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPartial   = "PARTIAL"
	PaymentStatusCompleted = "COMPLETED"

	PaymentMethodCash         = "CASH"
	PaymentMethodUPI          = "UPI"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

// Payment is one contribution a ticket made towards a month.
type Payment struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	ChitGroupID   uint            `gorm:"not null;index" json:"chit_group_id"`
	ChitMemberID  uint            `gorm:"not null;index:idx_payments_ticket_month" json:"chit_member_id"`
	MonthNumber   int             `gorm:"not null;index:idx_payments_ticket_month" json:"month_number"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount_paid"`
	PaymentMethod string          `gorm:"size:16;not null" json:"payment_method"`
	UpiID         *string         `gorm:"size:128" json:"upi_id"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
	Status        string          `gorm:"size:16;not null" json:"status"`
	Notes         *string         `json:"notes"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	ChitGroup     *ChitGroup      `gorm:"foreignKey:ChitGroupID" json:"chit_group,omitempty"`
	ChitMember    *ChitMember     `gorm:"foreignKey:ChitMemberID" json:"chit_member,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
