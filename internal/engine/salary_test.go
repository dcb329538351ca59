package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func TestIncomingSalaryLimit(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		outgoing int64
		tier     domain.CapTier
		want     string // "" means unlimited
	}{
		{"below cap is unlimited", 10_000_000, domain.CapTierBelowCap, ""},
		{"below cap zero outgoing", 0, domain.CapTierBelowCap, ""},
		{"low bracket zero", 0, domain.CapTierAboveCapBelowFirstApron, "250000"},
		{"low bracket", 5_000_000, domain.CapTierAboveCapBelowFirstApron, "10250000"},
		{"low bracket edge", 7_250_000, domain.CapTierAboveCapBelowFirstApron, "14750000"},
		{"mid bracket first dollar", 7_250_001, domain.CapTierAboveCapBelowFirstApron, "14750001"},
		{"mid bracket edge", 29_000_000, domain.CapTierAboveCapBelowFirstApron, "36500000"},
		{"high bracket", 34_800_000, domain.CapTierAboveCapBelowFirstApron, "43750000"},
		{"high bracket large", 43_200_000, domain.CapTierAboveCapBelowFirstApron, "54250000"},
		{"first apron", 20_000_000, domain.CapTierAboveFirstApronBelowSecondApron, "22000000"},
		{"first apron fractional", 5, domain.CapTierAboveFirstApronBelowSecondApron, "5.5"},
		{"second apron", 43_200_000, domain.CapTierAboveSecondApron, "43200000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.IncomingSalaryLimit(tt.outgoing, tt.tier)
			if tt.want == "" {
				if !got.Unlimited {
					t.Fatalf("IncomingSalaryLimit(%d, %s) = %s, want unlimited", tt.outgoing, tt.tier, got)
				}
				return
			}
			want := decimal.RequireFromString(tt.want)
			if got.Unlimited || !got.Amount.Equal(want) {
				t.Errorf("IncomingSalaryLimit(%d, %s) = %s, want %s", tt.outgoing, tt.tier, got, want)
			}
		})
	}
}

func TestIncomingSalaryLimit_PanicsOnUnmappedTier(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unmapped tier")
		}
	}()
	DefaultRules().IncomingSalaryLimit(1_000_000, domain.CapTierUnknown)
}

func TestIncomingSalaryLimit_PanicsOnNegativeSalary(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative salary")
		}
	}()
	DefaultRules().IncomingSalaryLimit(-1, domain.CapTierAboveSecondApron)
}

func TestIncomingSalaryLimit_UsesConfiguredBrackets(t *testing.T) {
	rules := DefaultRules()
	rules.Brackets.MidAllowance = 5_000_000
	rules.Brackets.FirstApronMultiplier = decimal.RequireFromString("1.05")

	if got := rules.IncomingSalaryLimit(10_000_000, domain.CapTierAboveCapBelowFirstApron); !got.Amount.Equal(decimal.NewFromInt(15_000_000)) {
		t.Errorf("mid bracket = %s, want $15,000,000", got)
	}
	if got := rules.IncomingSalaryLimit(10_000_000, domain.CapTierAboveFirstApronBelowSecondApron); !got.Amount.Equal(decimal.NewFromInt(10_500_000)) {
		t.Errorf("first apron = %s, want $10,500,000", got)
	}
}
