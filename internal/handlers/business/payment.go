package business

import (
	"errors"
	"fmt"
	"time"

	"bidnest/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus is COMPLETED once the cumulative paid amount covers the due.
func PaymentStatus(paid, due decimal.Decimal) string {
	if paid.GreaterThanOrEqual(due) {
		return models.PaymentStatusCompleted
	}
	return models.PaymentStatusPartial
}

// RemainingAmount is due minus paid, never below zero.
func RemainingAmount(due, paid decimal.Decimal) decimal.Decimal {
	remaining := due.Sub(paid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PaymentRequest is one contribution as entered by the organiser.
type PaymentRequest struct {
	ChitGroupID   uint
	ChitMemberID  uint
	MonthNumber   int
	AmountPaid    decimal.Decimal
	PaymentMethod string
	UpiID         *string
	PaymentDate   time.Time
	Notes         *string
}

// PaymentReceipt is a stored payment with the month's running totals.
type PaymentReceipt struct {
	Payment      models.Payment
	TicketNumber int
	TotalPaid    decimal.Decimal
	MonthlyDue   decimal.Decimal
	Remaining    decimal.Decimal
}

// monthlyDue returns the auction of the month and what each non-winning
// ticket owes for it.
func monthlyDue(db *gorm.DB, groupID uint, month int) (*models.Auction, decimal.Decimal, error) {
	var auction models.Auction
	err := db.Where("chit_group_id = ? AND month_number = ?", groupID, month).First(&auction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, decimal.Zero, ErrNoAuctionForMonth
	}
	if err != nil {
		return nil, decimal.Zero, err
	}
	calc := auction.CalculationData.Data()
	if calc.TotalMembers == 0 {
		return &auction, decimal.Zero, ErrMissingMonthlyDue
	}
	return &auction, calc.AmountToCollect, nil
}

func paidSoFar(db *gorm.DB, ticketID uint, month int) (decimal.Decimal, error) {
	var payments []models.Payment
	if err := db.Select("amount_paid").
		Where("chit_member_id = ? AND month_number = ?", ticketID, month).
		Find(&payments).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.AmountPaid)
	}
	return total, nil
}

// RecordPayment validates and stores a payment inside one transaction.
func RecordPayment(db *gorm.DB, req PaymentRequest) (*PaymentReceipt, error) {
	var receipt *PaymentReceipt
	err := db.Transaction(func(tx *gorm.DB) error {
		var group models.ChitGroup
		if err := tx.First(&group, req.ChitGroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		var ticket models.ChitMember
		err := tx.Where("id = ? AND chit_group_id = ?", req.ChitMemberID, group.ID).First(&ticket).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotInGroup
		}
		if err != nil {
			return err
		}
		if !ticket.IsActive {
			return ErrTicketInactive
		}

		auction, due, err := monthlyDue(tx, group.ID, req.MonthNumber)
		if err != nil {
			return err
		}
		if auction.WinnerChitMemberID == ticket.ID {
			return ErrWinnerDoesNotPay
		}

		already, err := paidSoFar(tx, ticket.ID, req.MonthNumber)
		if err != nil {
			return err
		}
		total := already.Add(req.AmountPaid)
		if total.GreaterThan(due) {
			return &OverpaymentError{
				MonthlyDue:  due,
				AlreadyPaid: already,
				Remaining:   RemainingAmount(due, already),
			}
		}

		payment := models.Payment{
			ChitGroupID:   group.ID,
			ChitMemberID:  ticket.ID,
			MonthNumber:   req.MonthNumber,
			AmountPaid:    req.AmountPaid,
			PaymentMethod: req.PaymentMethod,
			UpiID:         req.UpiID,
			PaymentDate:   req.PaymentDate,
			Status:        PaymentStatus(total, due),
			Notes:         req.Notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("store payment: %w", err)
		}

		receipt = &PaymentReceipt{
			Payment:      payment,
			TicketNumber: ticket.TicketNumber,
			TotalPaid:    total,
			MonthlyDue:   due,
			Remaining:    RemainingAmount(due, total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Tracking status values besides the payment statuses.
const (
	TrackingWinner  = "WINNER"
	TrackingPending = "PENDING"
)

// TicketTracking is one row of the monthly collection sheet.
type TicketTracking struct {
	ChitMemberID uint            `json:"chit_member_id"`
	TicketNumber int             `json:"ticket_number"`
	MemberID     uint            `json:"member_id"`
	MemberName   string          `json:"member_name"`
	IsWinner     bool            `json:"is_winner"`
	MonthlyDue   decimal.Decimal `json:"monthly_due"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Remaining    decimal.Decimal `json:"remaining"`
	Status       string          `json:"status"`
}

// MonthTracking is the collection sheet of one group and month.
type MonthTracking struct {
	ChitGroupID    uint             `json:"chit_group_id"`
	MonthNumber    int              `json:"month_number"`
	MonthlyDue     decimal.Decimal  `json:"monthly_due"`
	ExpectedTotal  decimal.Decimal  `json:"expected_total"`
	CollectedTotal decimal.Decimal  `json:"collected_total"`
	Tickets        []TicketTracking `json:"tickets"`
}

// TrackMonth reports what every active ticket owes and has paid for a month.
func TrackMonth(db *gorm.DB, groupID uint, month int) (*MonthTracking, error) {
	var group models.ChitGroup
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	auction, due, err := monthlyDue(db, group.ID, month)
	if err != nil {
		return nil, err
	}

	var tickets []models.ChitMember
	if err := db.Preload("Member").
		Where("chit_group_id = ? AND is_active = ?", group.ID, true).
		Order("ticket_number ASC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}

	var payments []models.Payment
	if err := db.Where("chit_group_id = ? AND month_number = ?", group.ID, month).Find(&payments).Error; err != nil {
		return nil, err
	}
	paid := make(map[uint]decimal.Decimal)
	for _, p := range payments {
		paid[p.ChitMemberID] = paid[p.ChitMemberID].Add(p.AmountPaid)
	}

	out := &MonthTracking{
		ChitGroupID:    group.ID,
		MonthNumber:    month,
		MonthlyDue:     due,
		ExpectedTotal:  decimal.Zero,
		CollectedTotal: decimal.Zero,
		Tickets:        make([]TicketTracking, 0, len(tickets)),
	}
	for _, t := range tickets {
		row := TicketTracking{
			ChitMemberID: t.ID,
			TicketNumber: t.TicketNumber,
			MemberID:     t.MemberID,
			TotalPaid:    paid[t.ID],
		}
		if t.Member != nil {
			row.MemberName = t.Member.Name.Data().Value
		}
		if t.ID == auction.WinnerChitMemberID {
			row.IsWinner = true
			row.MonthlyDue = decimal.Zero
			row.Remaining = decimal.Zero
			row.Status = TrackingWinner
		} else {
			row.MonthlyDue = due
			row.Remaining = RemainingAmount(due, row.TotalPaid)
			switch {
			case row.TotalPaid.GreaterThanOrEqual(due):
				row.Status = models.PaymentStatusCompleted
			case row.TotalPaid.IsPositive():
				row.Status = models.PaymentStatusPartial
			default:
				row.Status = TrackingPending
			}
			out.ExpectedTotal = out.ExpectedTotal.Add(due)
		}
		out.CollectedTotal = out.CollectedTotal.Add(row.TotalPaid)
		out.Tickets = append(out.Tickets, row)
	}
	return out, nil
}
