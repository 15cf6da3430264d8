package settlement

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositiveTotal       = errors.New("total amount must be positive")
	ErrNonPositiveBid         = errors.New("original bid must be positive")
	ErrNonPositiveRoundOff    = errors.New("round off value must be positive")
	ErrNegativeCommission     = errors.New("commission value must not be negative")
	ErrBidExceedsTotal        = errors.New("original bid cannot exceed total amount")
	ErrUnknownCommissionType  = errors.New("commission type must be PERCENT or FIXED")
	ErrCommissionPercentRange = errors.New("commission percent must be between 0 and 100")
	ErrNonPositiveMembers     = errors.New("total members must be positive")
)

// ValidationError ties a settlement error to the input field that caused it.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
