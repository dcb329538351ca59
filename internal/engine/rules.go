package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// MatchingBrackets parameterizes the salary-matching formulas. Amounts are
// whole dollars.
type MatchingBrackets struct {
	LowCeiling           int64           // top of the 2x bracket
	LowMultiplier        decimal.Decimal // 2
	LowAllowance         int64           // 250,000
	MidCeiling           int64           // top of the flat-allowance bracket
	MidAllowance         int64           // 7,500,000
	HighMultiplier       decimal.Decimal // 1.25
	HighAllowance        int64           // 250,000
	FirstApronMultiplier decimal.Decimal // 1.10
}

// Rules is one league rule-set version. Nothing in the engine hardcodes
// these figures.
type Rules struct {
	SalaryCap       int64
	FirstApron      int64
	SecondApron     int64
	CashAnnualLimit int64
	PickWindowYears int
	ExceptionTTL    time.Duration
	Brackets        MatchingBrackets
}

// DefaultBrackets returns the standard salary-matching brackets.
func DefaultBrackets() MatchingBrackets {
	return MatchingBrackets{
		LowCeiling:           7_250_000,
		LowMultiplier:        decimal.NewFromInt(2),
		LowAllowance:         250_000,
		MidCeiling:           29_000_000,
		MidAllowance:         7_500_000,
		HighMultiplier:       decimal.RequireFromString("1.25"),
		HighAllowance:        250_000,
		FirstApronMultiplier: decimal.RequireFromString("1.10"),
	}
}

// DefaultRules returns the reference rule set.
func DefaultRules() Rules {
	return Rules{
		SalaryCap:       141_000_000,
		FirstApron:      172_000_000,
		SecondApron:     182_500_000,
		CashAnnualLimit: 7_000_000,
		PickWindowYears: 7,
		ExceptionTTL:    365 * 24 * time.Hour,
		Brackets:        DefaultBrackets(),
	}
}

// Validate checks that the rule set is internally consistent.
func (r Rules) Validate() error {
	if r.SalaryCap <= 0 {
		return fmt.Errorf("salary cap must be > 0, got %d", r.SalaryCap)
	}
	if r.FirstApron <= r.SalaryCap {
		return fmt.Errorf("first apron (%d) must be above the salary cap (%d)", r.FirstApron, r.SalaryCap)
	}
	if r.SecondApron <= r.FirstApron {
		return fmt.Errorf("second apron (%d) must be above the first apron (%d)", r.SecondApron, r.FirstApron)
	}
	if r.CashAnnualLimit < 0 {
		return fmt.Errorf("cash annual limit must be >= 0, got %d", r.CashAnnualLimit)
	}
	if r.PickWindowYears <= 0 {
		return fmt.Errorf("pick window must be > 0 years, got %d", r.PickWindowYears)
	}
	if r.ExceptionTTL <= 0 {
		return fmt.Errorf("exception ttl must be > 0, got %s", r.ExceptionTTL)
	}
	b := r.Brackets
	if b.LowCeiling <= 0 || b.MidCeiling <= b.LowCeiling {
		return fmt.Errorf("matching brackets must ascend: low %d, mid %d", b.LowCeiling, b.MidCeiling)
	}
	for name, m := range map[string]decimal.Decimal{
		"low":         b.LowMultiplier,
		"high":        b.HighMultiplier,
		"first apron": b.FirstApronMultiplier,
	} {
		if m.LessThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s multiplier must be >= 1, got %s", name, m)
		}
	}
	return nil
}

// Classify derives a cap tier from a payroll total. A payroll equal to a
// threshold counts as above it.
func (r Rules) Classify(totalSalary int64) domain.CapTier {
	switch {
	case totalSalary < r.SalaryCap:
		return domain.CapTierBelowCap
	case totalSalary < r.FirstApron:
		return domain.CapTierAboveCapBelowFirstApron
	case totalSalary < r.SecondApron:
		return domain.CapTierAboveFirstApronBelowSecondApron
	}
	return domain.CapTierAboveSecondApron
}
