// Package settlement computes the monthly auction settlement of a chit group.
//
// Given the pool value, the winning bid, the group's commission rule and the
// unrounded remainder carried from the previous month, Compute returns the
// winner's payout, the organiser commission, the dividend split into a
// rounded part that is distributed and a remainder carried forward.
//
// All arithmetic is done on arbitrary precision decimals. No step goes
// through float64.
package settlement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CommissionType selects how CommissionValue is interpreted.
type CommissionType string

const (
	// Percent treats the commission value as a percentage of the winning amount.
	Percent CommissionType = "PERCENT"
	// Fixed treats the commission value as an absolute amount.
	Fixed CommissionType = "FIXED"
)

var hundred = decimal.NewFromInt(100)

// ParseCommissionType accepts PERCENT or FIXED in any letter case.
func ParseCommissionType(s string) (CommissionType, error) {
	switch CommissionType(strings.ToUpper(strings.TrimSpace(s))) {
	case Percent:
		return Percent, nil
	case Fixed:
		return Fixed, nil
	}
	return "", &ValidationError{Field: "commission_type", Err: ErrUnknownCommissionType}
}

// Input holds one month's auction parameters.
type Input struct {
	TotalAmount     decimal.Decimal `json:"total_amount"`
	OriginalBid     decimal.Decimal `json:"original_bid"`
	CommissionType  CommissionType  `json:"commission_type"`
	CommissionValue decimal.Decimal `json:"commission_value"`
	RoundOffValue   int64           `json:"round_off_value"`
	CarryPrevious   decimal.Decimal `json:"carry_previous"`
}

// Result is the settlement breakdown of a single auction.
type Result struct {
	OriginalBid      decimal.Decimal `json:"original_bid"`
	WinningAmount    decimal.Decimal `json:"winning_amount"`
	Commission       decimal.Decimal `json:"commission"`
	CarryPrevious    decimal.Decimal `json:"carry_previous"`
	RawDividend      decimal.Decimal `json:"raw_dividend"`
	RoundoffDividend decimal.Decimal `json:"roundoff_dividend"`
	CarryNext        decimal.Decimal `json:"carry_next"`
}

// Validate reports the first field of in that cannot be settled.
func Validate(in Input) error {
	if !in.TotalAmount.IsPositive() {
		return &ValidationError{Field: "total_amount", Err: ErrNonPositiveTotal}
	}
	if !in.OriginalBid.IsPositive() {
		return &ValidationError{Field: "original_bid", Err: ErrNonPositiveBid}
	}
	if in.OriginalBid.GreaterThan(in.TotalAmount) {
		return &ValidationError{Field: "original_bid", Err: ErrBidExceedsTotal}
	}
	if in.RoundOffValue <= 0 {
		return &ValidationError{Field: "round_off_value", Err: ErrNonPositiveRoundOff}
	}
	if in.CommissionValue.IsNegative() {
		return &ValidationError{Field: "commission_value", Err: ErrNegativeCommission}
	}
	switch in.CommissionType {
	case Percent:
		if in.CommissionValue.GreaterThan(hundred) {
			return &ValidationError{Field: "commission_value", Err: ErrCommissionPercentRange}
		}
	case Fixed:
	default:
		return &ValidationError{Field: "commission_type", Err: ErrUnknownCommissionType}
	}
	return nil
}

// Compute settles one auction.
func Compute(in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}

	winning := in.TotalAmount.Sub(in.OriginalBid)

	commission := in.CommissionValue
	if in.CommissionType == Percent {
		// x * v / 100 as an exact decimal shift
		commission = winning.Mul(in.CommissionValue).Shift(-2)
	}

	raw := in.OriginalBid.Sub(commission).Add(in.CarryPrevious)
	roundoff, carry := floorToMultiple(raw, in.RoundOffValue)

	return Result{
		OriginalBid:      in.OriginalBid,
		WinningAmount:    winning,
		Commission:       commission,
		CarryPrevious:    in.CarryPrevious,
		RawDividend:      raw,
		RoundoffDividend: roundoff,
		CarryNext:        carry,
	}, nil
}

// floorToMultiple splits v into the largest multiple of step not above v and
// the non-negative remainder.
func floorToMultiple(v decimal.Decimal, step int64) (decimal.Decimal, decimal.Decimal) {
	r := decimal.NewFromInt(step)
	q, rem := v.QuoRem(r, 0)
	if rem.IsNegative() {
		q = q.Sub(decimal.NewFromInt(1))
		rem = rem.Add(r)
	}
	return q.Mul(r), rem
}

// Chain settles consecutive months of one group. Month i uses bids[i] and the
// carry produced by month i-1; the first month starts from base.CarryPrevious.
func Chain(base Input, bids []decimal.Decimal) ([]Result, error) {
	results := make([]Result, 0, len(bids))
	in := base
	for i, bid := range bids {
		in.OriginalBid = bid
		res, err := Compute(in)
		if err != nil {
			return results, fmt.Errorf("month %d: %w", i+1, err)
		}
		results = append(results, res)
		in.CarryPrevious = res.CarryNext
	}
	return results, nil
}
