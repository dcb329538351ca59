package engine

import (
	"fmt"
	"math"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// Validator decides whether a proposal is legal under a rule set. It is
// pure: it reads both teams and never writes them, so it is safe for
// concurrent use without locking.
type Validator struct {
	rules    Rules
	calendar domain.Calendar
}

// NewValidator creates a Validator. The calendar supplies the season year
// used by the pick-protection window.
func NewValidator(rules Rules, calendar domain.Calendar) *Validator {
	return &Validator{
		rules:    rules,
		calendar: calendar,
	}
}

// Rules returns the rule set the validator enforces.
func (v *Validator) Rules() Rules {
	return v.rules
}

// Validate checks the proposal against the current state of both teams.
// Structural problems are reported first, then eligibility for side A and
// side B, then salary matching. The first failure wins.
func (v *Validator) Validate(p domain.TradeProposal, teamA, teamB *domain.Team) domain.ValidationResult {
	// Step 1: Structure.
	if violation := checkStructure(p, teamA, teamB); violation != nil {
		return domain.Reject(*violation)
	}

	// Step 2: Eligibility, side A before side B.
	year := v.calendar.SeasonYear()
	tierOf := func(id string) (domain.CapTier, bool) {
		switch id {
		case teamA.ID:
			return teamA.CapTier, true
		case teamB.ID:
			return teamB.CapTier, true
		}
		return domain.CapTierUnknown, false
	}
	if violation := v.rules.CheckAssets(p.TeamAOut, teamA, year, tierOf); violation != nil {
		return domain.Reject(*violation)
	}
	if violation := v.rules.CheckAssets(p.TeamBOut, teamB, year, tierOf); violation != nil {
		return domain.Reject(*violation)
	}

	// Step 3: Salary totals from the senders' rosters.
	outA := outgoingSalary(p.TeamAOut, teamA)
	outB := outgoingSalary(p.TeamBOut, teamB)
	inA, inB := outB, outA

	// Step 4: Salary matching.
	limitA := v.rules.IncomingSalaryLimit(outA, teamA.CapTier)
	if !limitA.Allows(inA) {
		return domain.Reject(salaryViolation(teamA, inA, limitA))
	}
	limitB := v.rules.IncomingSalaryLimit(outB, teamB.CapTier)
	if !limitB.Allows(inB) {
		return domain.Reject(salaryViolation(teamB, inB, limitB))
	}

	// Step 5: Exceptions generated by sending out more than coming back.
	var excA, excB int64
	if outA > inA {
		excA = outA - inA
	}
	if outB > inB {
		excB = outB - inB
	}

	return domain.Approve(domain.Approval{
		LimitA:     limitA,
		LimitB:     limitB,
		OutSalaryA: outA,
		OutSalaryB: outB,
		ExceptionA: excA,
		ExceptionB: excB,
	})
}

// checkStructure rejects proposals that cannot be evaluated asset by asset:
// unresolved or identical teams, no players, assets the sender does not
// hold, duplicates, and non-positive cash.
func checkStructure(p domain.TradeProposal, teamA, teamB *domain.Team) *domain.Violation {
	switch {
	case teamA == nil || teamA.ID != p.TeamAID:
		return &domain.Violation{
			Rule:   domain.RuleUnknownTeam,
			TeamID: p.TeamAID,
			Reason: fmt.Sprintf("team %q does not exist", p.TeamAID),
		}
	case teamB == nil || teamB.ID != p.TeamBID:
		return &domain.Violation{
			Rule:   domain.RuleUnknownTeam,
			TeamID: p.TeamBID,
			Reason: fmt.Sprintf("team %q does not exist", p.TeamBID),
		}
	case teamA.ID == teamB.ID:
		return &domain.Violation{
			Rule:   domain.RuleSameTeam,
			TeamID: teamA.ID,
			Reason: "a team cannot trade with itself",
		}
	case !p.HasPlayer():
		return &domain.Violation{
			Rule:   domain.RuleNoPlayers,
			Reason: "a trade must include at least one player",
		}
	}

	if violation := checkHoldings(p.TeamAOut, teamA); violation != nil {
		return violation
	}
	return checkHoldings(p.TeamBOut, teamB)
}

func checkHoldings(out []domain.TradeAsset, sender *domain.Team) *domain.Violation {
	seenPlayers := make(map[string]bool)
	seenPicks := make(map[domain.PickKey]bool)
	var cash int64

	for _, a := range out {
		switch v := a.(type) {
		case domain.Player:
			if seenPlayers[v.ID] {
				return &domain.Violation{
					Rule:    domain.RuleDuplicateAsset,
					TeamID:  sender.ID,
					AssetID: v.ID,
					Reason:  fmt.Sprintf("player %s is listed more than once", v.ID),
				}
			}
			seenPlayers[v.ID] = true
			if _, ok := sender.PlayerByID(v.ID); !ok {
				return &domain.Violation{
					Rule:    domain.RuleAssetNotOwned,
					TeamID:  sender.ID,
					AssetID: v.ID,
					Reason:  fmt.Sprintf("player %s is not on the %s roster", v.ID, teamLabel(sender)),
				}
			}
		case domain.DraftPick:
			key := v.Key()
			if seenPicks[key] {
				return &domain.Violation{
					Rule:    domain.RuleDuplicateAsset,
					TeamID:  sender.ID,
					AssetID: key.String(),
					Reason:  fmt.Sprintf("pick %s is listed more than once", key),
				}
			}
			seenPicks[key] = true
			if !sender.HasPick(key) {
				return &domain.Violation{
					Rule:    domain.RuleAssetNotOwned,
					TeamID:  sender.ID,
					AssetID: key.String(),
					Reason:  fmt.Sprintf("pick %s is not owned by %s", key, teamLabel(sender)),
				}
			}
		case domain.Cash:
			if v.Amount <= 0 {
				return &domain.Violation{
					Rule:   domain.RuleInvalidCash,
					TeamID: sender.ID,
					Reason: fmt.Sprintf("cash amount must be > 0, got %d", v.Amount),
				}
			}
			if v.Amount > math.MaxInt64-cash {
				return &domain.Violation{
					Rule:   domain.RuleInvalidCash,
					TeamID: sender.ID,
					Reason: "total cash sent overflows a dollar amount",
				}
			}
			cash += v.Amount
		default:
			panic(fmt.Sprintf("engine: unknown trade asset %T", a))
		}
	}
	return nil
}

// outgoingSalary sums the roster salaries of the players a side sends.
func outgoingSalary(out []domain.TradeAsset, sender *domain.Team) int64 {
	var total int64
	for _, a := range out {
		if p, ok := a.(domain.Player); ok {
			if rostered, ok := sender.PlayerByID(p.ID); ok {
				total += rostered.Contract.Salary
			}
		}
	}
	return total
}

func salaryViolation(team *domain.Team, incoming int64, limit domain.SalaryLimit) domain.Violation {
	v := domain.Violation{
		Rule:      domain.RuleSalaryMatch,
		TeamID:    team.ID,
		Attempted: incoming,
		Limit:     limit,
	}
	v.Reason = fmt.Sprintf("%s incoming salary %s exceeds its salary-matching limit %s by %s",
		teamLabel(team), domain.FormatDollars(incoming), limit, domain.FormatDecimalDollars(v.Overage()))
	return v
}
