package engine

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func TestRules_Classify(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		total int64
		want  domain.CapTier
	}{
		{0, domain.CapTierBelowCap},
		{140_999_999, domain.CapTierBelowCap},
		{141_000_000, domain.CapTierAboveCapBelowFirstApron},
		{171_999_999, domain.CapTierAboveCapBelowFirstApron},
		{172_000_000, domain.CapTierAboveFirstApronBelowSecondApron},
		{182_499_999, domain.CapTierAboveFirstApronBelowSecondApron},
		{182_500_000, domain.CapTierAboveSecondApron},
		{250_000_000, domain.CapTierAboveSecondApron},
	}
	for _, tt := range tests {
		if got := r.Classify(tt.total); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestRules_Validate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Rules)
		wantErr string
	}{
		{"zero cap", func(r *Rules) { r.SalaryCap = 0 }, "salary cap"},
		{"first apron at cap", func(r *Rules) { r.FirstApron = r.SalaryCap }, "first apron"},
		{"second apron below first", func(r *Rules) { r.SecondApron = r.FirstApron - 1 }, "second apron"},
		{"negative cash limit", func(r *Rules) { r.CashAnnualLimit = -1 }, "cash annual limit"},
		{"zero pick window", func(r *Rules) { r.PickWindowYears = 0 }, "pick window"},
		{"zero ttl", func(r *Rules) { r.ExceptionTTL = 0 }, "exception ttl"},
		{"brackets inverted", func(r *Rules) { r.Brackets.MidCeiling = r.Brackets.LowCeiling }, "brackets"},
		{"shrinking multiplier", func(r *Rules) { r.Brackets.FirstApronMultiplier = decimal.RequireFromString("0.9") }, "first apron multiplier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRules()
			tt.mutate(&r)
			err := r.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
