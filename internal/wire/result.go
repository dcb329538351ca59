package wire

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// SalaryLimit is a computed incoming-salary ceiling. Amount is omitted when
// Unlimited is true.
type SalaryLimit struct {
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Unlimited bool             `json:"unlimited"`
	Display   string           `json:"display"`
}

// FromSalaryLimit converts a domain limit.
func FromSalaryLimit(l domain.SalaryLimit) SalaryLimit {
	out := SalaryLimit{Unlimited: l.Unlimited, Display: l.String()}
	if !l.Unlimited {
		amount := l.Amount
		out.Amount = &amount
	}
	return out
}

// ToDomain converts the limit back. Display is ignored.
func (l SalaryLimit) ToDomain() domain.SalaryLimit {
	if l.Unlimited {
		return domain.NoSalaryLimit()
	}
	if l.Amount == nil {
		return domain.LimitOf(decimal.Zero)
	}
	return domain.LimitOf(*l.Amount)
}

// Approval carries the figures of an accepted trade.
type Approval struct {
	LimitA     SalaryLimit `json:"limit_a"`
	LimitB     SalaryLimit `json:"limit_b"`
	OutSalaryA int64       `json:"out_salary_a"`
	OutSalaryB int64       `json:"out_salary_b"`
	ExceptionA int64       `json:"exception_a"`
	ExceptionB int64       `json:"exception_b"`
}

// FromApproval converts a domain approval.
func FromApproval(a domain.Approval) Approval {
	return Approval{
		LimitA:     FromSalaryLimit(a.LimitA),
		LimitB:     FromSalaryLimit(a.LimitB),
		OutSalaryA: a.OutSalaryA,
		OutSalaryB: a.OutSalaryB,
		ExceptionA: a.ExceptionA,
		ExceptionB: a.ExceptionB,
	}
}

// ToDomain converts the approval back.
func (a Approval) ToDomain() domain.Approval {
	return domain.Approval{
		LimitA:     a.LimitA.ToDomain(),
		LimitB:     a.LimitB.ToDomain(),
		OutSalaryA: a.OutSalaryA,
		OutSalaryB: a.OutSalaryB,
		ExceptionA: a.ExceptionA,
		ExceptionB: a.ExceptionB,
	}
}

// Violation describes the rule a trade failed. Limit and Overage are set
// only for salary-matching failures.
type Violation struct {
	Rule      domain.Rule  `json:"rule"`
	TeamID    string       `json:"team_id,omitempty"`
	AssetID   string       `json:"asset_id,omitempty"`
	Reason    string       `json:"reason"`
	Attempted int64        `json:"attempted,omitempty"`
	Limit     *SalaryLimit `json:"limit,omitempty"`
	Overage   string       `json:"overage,omitempty"`
}

// FromViolation converts a domain violation.
func FromViolation(v domain.Violation) Violation {
	out := Violation{
		Rule:    v.Rule,
		TeamID:  v.TeamID,
		AssetID: v.AssetID,
		Reason:  v.Reason,
	}
	if v.Rule == domain.RuleSalaryMatch {
		limit := FromSalaryLimit(v.Limit)
		out.Attempted = v.Attempted
		out.Limit = &limit
		out.Overage = v.Overage().String()
	}
	return out
}

// Result is a validation outcome. Exactly one of Approval and Violation is
// set.
type Result struct {
	Valid     bool       `json:"valid"`
	Reason    string     `json:"reason"`
	Approval  *Approval  `json:"approval,omitempty"`
	Violation *Violation `json:"violation,omitempty"`
}

// FromResult converts a domain validation result.
func FromResult(r domain.ValidationResult) Result {
	out := Result{Valid: r.Valid(), Reason: r.Reason()}
	if a, ok := r.Approval(); ok {
		approval := FromApproval(a)
		out.Approval = &approval
	}
	if v, ok := r.Violation(); ok {
		violation := FromViolation(v)
		out.Violation = &violation
	}
	return out
}

// TradeRecord is an executed trade.
type TradeRecord struct {
	TradeID    string      `json:"trade_id"`
	Proposal   Proposal    `json:"proposal"`
	Approval   Approval    `json:"approval"`
	Exceptions []Exception `json:"exceptions"`
	ExecutedAt time.Time   `json:"executed_at"`
}

// FromTradeRecord converts a domain trade record.
func FromTradeRecord(r *domain.TradeRecord) TradeRecord {
	return TradeRecord{
		TradeID:    r.TradeID,
		Proposal:   FromProposal(r.Proposal),
		Approval:   FromApproval(r.Approval),
		Exceptions: FromExceptions(r.Exceptions),
		ExecutedAt: r.ExecutedAt,
	}
}

// ToDomain converts the record back.
func (r TradeRecord) ToDomain() (*domain.TradeRecord, error) {
	proposal, err := r.Proposal.ToDomain()
	if err != nil {
		return nil, err
	}
	return &domain.TradeRecord{
		TradeID:    r.TradeID,
		Proposal:   proposal,
		Approval:   r.Approval.ToDomain(),
		Exceptions: ToExceptions(r.Exceptions),
		ExecutedAt: r.ExecutedAt,
	}, nil
}
