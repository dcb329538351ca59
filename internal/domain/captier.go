package domain

import "fmt"

// CapTier classifies a team's payroll against the league's cap thresholds.
// Tiers are ordered from most to least permissive; a higher value is a
// stricter tier.
type CapTier int

const (
	CapTierUnknown CapTier = iota
	CapTierBelowCap
	CapTierAboveCapBelowFirstApron
	CapTierAboveFirstApronBelowSecondApron
	CapTierAboveSecondApron
)

// CapTiers lists every valid tier, most permissive first.
var CapTiers = []CapTier{
	CapTierBelowCap,
	CapTierAboveCapBelowFirstApron,
	CapTierAboveFirstApronBelowSecondApron,
	CapTierAboveSecondApron,
}

var capTierNames = map[CapTier]string{
	CapTierBelowCap:                        "below_cap",
	CapTierAboveCapBelowFirstApron:         "above_cap_below_first_apron",
	CapTierAboveFirstApronBelowSecondApron: "above_first_apron_below_second_apron",
	CapTierAboveSecondApron:                "above_second_apron",
}

// Valid reports whether t is one of the four defined tiers.
func (t CapTier) Valid() bool {
	_, ok := capTierNames[t]
	return ok
}

// Compare returns -1 if t is more permissive than o, 1 if it is stricter,
// and 0 if they are the same tier.
func (t CapTier) Compare(o CapTier) int {
	switch {
	case t < o:
		return -1
	case t > o:
		return 1
	}
	return 0
}

// StricterThan reports whether t imposes tighter trade rules than o.
func (t CapTier) StricterThan(o CapTier) bool {
	return t.Compare(o) > 0
}

// IsStrictest reports whether t is the most restrictive tier.
func (t CapTier) IsStrictest() bool {
	return t == CapTierAboveSecondApron
}

func (t CapTier) String() string {
	if name, ok := capTierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("cap_tier(%d)", int(t))
}

// ParseCapTier parses the snake_case tier name produced by String.
func ParseCapTier(s string) (CapTier, error) {
	for tier, name := range capTierNames {
		if name == s {
			return tier, nil
		}
	}
	return CapTierUnknown, fmt.Errorf("unknown cap tier %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t CapTier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CapTier) UnmarshalText(b []byte) error {
	tier, err := ParseCapTier(string(b))
	if err != nil {
		return err
	}
	*t = tier
	return nil
}
