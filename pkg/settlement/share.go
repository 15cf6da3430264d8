package settlement

import "github.com/shopspring/decimal"

// MemberShare is what each ticket holder receives and owes for the month.
type MemberShare struct {
	DividendPerMember decimal.Decimal `json:"dividend_per_member"`
	AmountToCollect   decimal.Decimal `json:"amount_to_collect"`
	// RoundingGap is RoundoffDividend minus DividendPerMember times the
	// member count. It stays with the organiser and is not carried forward.
	RoundingGap decimal.Decimal `json:"rounding_gap"`
}

// Distribute spreads the rounded dividend evenly over totalMembers tickets.
// The per-member dividend is rounded to two places (banker's rounding) and
// subtracted from the monthly contribution to get the amount to collect.
// Rounding means the shares may not add up to RoundoffDividend exactly; the
// difference of at most half a paisa per member is reported as RoundingGap.
func Distribute(res Result, totalMembers int, monthlyAmount decimal.Decimal) (MemberShare, error) {
	if totalMembers <= 0 {
		return MemberShare{}, &ValidationError{Field: "total_members", Err: ErrNonPositiveMembers}
	}
	members := decimal.NewFromInt(int64(totalMembers))
	perMember := res.RoundoffDividend.Div(members).RoundBank(2)
	return MemberShare{
		DividendPerMember: perMember,
		AmountToCollect:   monthlyAmount.Sub(perMember),
		RoundingGap:       res.RoundoffDividend.Sub(perMember.Mul(members)),
	}, nil
}
