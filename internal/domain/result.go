package domain

import "github.com/shopspring/decimal"

// Rule identifies the check a trade failed.
type Rule string

const (
	RuleUnknownTeam         Rule = "unknown_team"
	RuleSameTeam            Rule = "same_team"
	RuleNoPlayers           Rule = "no_players"
	RuleAssetNotOwned       Rule = "asset_not_owned"
	RuleDuplicateAsset      Rule = "duplicate_asset"
	RuleInvalidCash         Rule = "invalid_cash"
	RulePlayerLocked        Rule = "player_locked"
	RuleCashApronRestricted Rule = "cash_apron_restricted"
	RuleCashLimit           Rule = "cash_limit"
	RulePickProtection      Rule = "pick_protection"
	RuleSalaryMatch         Rule = "salary_match"
)

// Structural reports whether the rule rejects the shape of the proposal
// rather than one of its assets.
func (r Rule) Structural() bool {
	switch r {
	case RuleUnknownTeam, RuleSameTeam, RuleNoPlayers, RuleAssetNotOwned,
		RuleDuplicateAsset, RuleInvalidCash:
		return true
	}
	return false
}

// SalaryLimit is the most incoming salary a team may take back.
type SalaryLimit struct {
	Amount    decimal.Decimal
	Unlimited bool
}

// NoSalaryLimit returns a limit that allows any incoming salary.
func NoSalaryLimit() SalaryLimit {
	return SalaryLimit{Unlimited: true}
}

// LimitOf returns a bounded limit.
func LimitOf(amount decimal.Decimal) SalaryLimit {
	return SalaryLimit{Amount: amount}
}

// Allows reports whether incoming salary fits under the limit.
func (l SalaryLimit) Allows(incoming int64) bool {
	if l.Unlimited {
		return true
	}
	return decimal.NewFromInt(incoming).LessThanOrEqual(l.Amount)
}

// Compare orders limits; an unlimited limit is greater than any bounded one.
func (l SalaryLimit) Compare(o SalaryLimit) int {
	switch {
	case l.Unlimited && o.Unlimited:
		return 0
	case l.Unlimited:
		return 1
	case o.Unlimited:
		return -1
	}
	return l.Amount.Cmp(o.Amount)
}

// Equal reports whether two limits are the same.
func (l SalaryLimit) Equal(o SalaryLimit) bool {
	return l.Compare(o) == 0
}

func (l SalaryLimit) String() string {
	if l.Unlimited {
		return "unlimited"
	}
	return FormatDecimalDollars(l.Amount)
}

// Approval carries what a valid trade computed.
type Approval struct {
	LimitA     SalaryLimit
	LimitB     SalaryLimit
	OutSalaryA int64
	OutSalaryB int64
	ExceptionA int64 // TPE amount team A would generate; 0 for none
	ExceptionB int64
}

// Violation describes the first rule a trade broke.
type Violation struct {
	Rule      Rule
	TeamID    string
	AssetID   string
	Reason    string
	Attempted int64       // incoming salary, salary_match only
	Limit     SalaryLimit // salary_match only
}

// Overage is how far incoming salary exceeds the limit. Zero unless the
// violation is a bounded salary-match failure.
func (v Violation) Overage() decimal.Decimal {
	if v.Rule != RuleSalaryMatch || v.Limit.Unlimited {
		return decimal.Zero
	}
	return decimal.NewFromInt(v.Attempted).Sub(v.Limit.Amount)
}

// ValidationResult is either an Approval or a Violation, never both. The
// zero value is neither and is reported as invalid.
type ValidationResult struct {
	approval  *Approval
	violation *Violation
}

// Approve wraps a passing outcome.
func Approve(a Approval) ValidationResult {
	return ValidationResult{approval: &a}
}

// Reject wraps a failing outcome.
func Reject(v Violation) ValidationResult {
	return ValidationResult{violation: &v}
}

// Valid reports whether the trade passed every rule.
func (r ValidationResult) Valid() bool {
	return r.approval != nil
}

// Approval returns the passing outcome, if any.
func (r ValidationResult) Approval() (Approval, bool) {
	if r.approval == nil {
		return Approval{}, false
	}
	return *r.approval, true
}

// Violation returns the failing outcome, if any.
func (r ValidationResult) Violation() (Violation, bool) {
	if r.violation == nil {
		return Violation{}, false
	}
	return *r.violation, true
}

// Reason returns a human-readable summary of the outcome.
func (r ValidationResult) Reason() string {
	switch {
	case r.violation != nil:
		return r.violation.Reason
	case r.approval != nil:
		return "trade complies with league rules"
	}
	return "no result"
}

// Equal reports whether two results carry the same outcome.
func (r ValidationResult) Equal(o ValidationResult) bool {
	a1, ok1 := r.Approval()
	a2, ok2 := o.Approval()
	if ok1 != ok2 {
		return false
	}
	if ok1 {
		return a1.LimitA.Equal(a2.LimitA) && a1.LimitB.Equal(a2.LimitB) &&
			a1.OutSalaryA == a2.OutSalaryA && a1.OutSalaryB == a2.OutSalaryB &&
			a1.ExceptionA == a2.ExceptionA && a1.ExceptionB == a2.ExceptionB
	}
	v1, ok1 := r.Violation()
	v2, ok2 := o.Violation()
	if ok1 != ok2 {
		return false
	}
	if !ok1 {
		return true
	}
	return v1.Rule == v2.Rule && v1.TeamID == v2.TeamID && v1.AssetID == v2.AssetID &&
		v1.Reason == v2.Reason && v1.Attempted == v2.Attempted && v1.Limit.Equal(v2.Limit)
}
