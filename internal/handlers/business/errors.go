package business

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrGroupNotFound         = errors.New("chit group not found")
	ErrGroupClosed           = errors.New("chit group is closed")
	ErrMonthOutOfRange       = errors.New("month_number exceeds the group's duration")
	ErrWinnerNotInGroup      = errors.New("winner does not belong to this chit group")
	ErrTicketAlreadyWon      = errors.New("this ticket has already won an auction in this group")
	ErrMonthAlreadyAuctioned = errors.New("an auction already exists for this month")
	ErrTicketNotInGroup      = errors.New("ticket does not belong to this chit group")
	ErrTicketInactive        = errors.New("ticket is inactive")
	ErrNoAuctionForMonth     = errors.New("no auction recorded for this month")
	ErrWinnerDoesNotPay      = errors.New("the auction winner does not pay for this month")
	ErrMissingMonthlyDue     = errors.New("auction has no amount to collect")
)

// OverpaymentError rejects a payment that would exceed the month's due.
type OverpaymentError struct {
	MonthlyDue  decimal.Decimal
	AlreadyPaid decimal.Decimal
	Remaining   decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds amount due: remaining %s of %s", e.Remaining.StringFixed(2), e.MonthlyDue.StringFixed(2))
}
