package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// IncomingSalaryLimit returns the most salary a team in the given tier may
// take back when it sends out outgoing dollars.
//
// It panics on a negative amount or a tier with no formula: both mean the
// caller or the configuration is broken.
func (r Rules) IncomingSalaryLimit(outgoing int64, tier domain.CapTier) domain.SalaryLimit {
	if outgoing < 0 {
		panic(fmt.Sprintf("engine: negative outgoing salary %d", outgoing))
	}
	s := decimal.NewFromInt(outgoing)
	b := r.Brackets

	switch tier {
	case domain.CapTierBelowCap:
		// Cap room is enforced by cap tracking, not salary matching.
		return domain.NoSalaryLimit()

	case domain.CapTierAboveCapBelowFirstApron:
		switch {
		case outgoing <= b.LowCeiling:
			return domain.LimitOf(s.Mul(b.LowMultiplier).Add(decimal.NewFromInt(b.LowAllowance)))
		case outgoing <= b.MidCeiling:
			return domain.LimitOf(s.Add(decimal.NewFromInt(b.MidAllowance)))
		default:
			return domain.LimitOf(s.Mul(b.HighMultiplier).Add(decimal.NewFromInt(b.HighAllowance)))
		}

	case domain.CapTierAboveFirstApronBelowSecondApron:
		return domain.LimitOf(s.Mul(b.FirstApronMultiplier))

	case domain.CapTierAboveSecondApron:
		return domain.LimitOf(s)
	}

	panic(fmt.Sprintf("engine: no salary-matching formula for %s", tier))
}
