package domain

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatDollars renders whole dollars as "$14,750,000".
func FormatDollars(amount int64) string {
	if amount < 0 {
		return "-$" + humanize.Comma(-amount)
	}
	return "$" + humanize.Comma(amount)
}

// FormatDecimalDollars renders a dollar amount, keeping cents only when
// the value is fractional: "$47,520,000" or "$38,280,000.50".
func FormatDecimalDollars(d decimal.Decimal) string {
	if d.IsInteger() {
		return FormatDollars(d.IntPart())
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents == 100 {
		whole = whole.Add(decimal.NewFromInt(1))
		cents = 0
	}
	out := sign + "$" + humanize.Comma(whole.IntPart())
	if cents == 0 {
		return out
	}
	c := decimal.NewFromInt(cents).StringFixed(0)
	if cents < 10 {
		c = "0" + c
	}
	return out + "." + c
}
