package engine

import (
	"fmt"
	"math"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// TierLookup returns the current cap tier of a team, or false if the team
// is unknown to the caller.
type TierLookup func(teamID string) (domain.CapTier, bool)

// CheckAssets runs the per-asset eligibility rules against one side's
// outgoing assets. Checks run in a fixed order (player locks, then cash,
// then pick protection) and stop at the first failure. It returns nil when
// every asset is eligible. It never mutates sender.
func (r Rules) CheckAssets(out []domain.TradeAsset, sender *domain.Team, currentYear int, tierOf TierLookup) *domain.Violation {
	var cash int64
	var players []domain.Player
	var picks []domain.DraftPick

	for _, a := range out {
		switch v := a.(type) {
		case domain.Player:
			// Prefer the roster record; proposals may carry stale copies.
			if p, ok := sender.PlayerByID(v.ID); ok {
				v = p
			}
			players = append(players, v)
		case domain.DraftPick:
			picks = append(picks, v)
		case domain.Cash:
			cash = addCapped(cash, v.Amount)
		default:
			panic(fmt.Sprintf("engine: unknown trade asset %T", a))
		}
	}

	for _, p := range players {
		if p.Restriction.Tradeable {
			continue
		}
		reason := p.Restriction.Reason
		if reason == "" {
			reason = "unspecified restriction"
		}
		msg := fmt.Sprintf("%s is not tradeable: %s", playerLabel(p), reason)
		if p.Restriction.UnlockDate != nil {
			msg += fmt.Sprintf(" (eligible %s)", p.Restriction.UnlockDate.Format("2006-01-02"))
		}
		return &domain.Violation{
			Rule:    domain.RulePlayerLocked,
			TeamID:  sender.ID,
			AssetID: p.ID,
			Reason:  msg,
		}
	}

	if cash > 0 && sender.CapTier.IsStrictest() {
		return &domain.Violation{
			Rule:   domain.RuleCashApronRestricted,
			TeamID: sender.ID,
			Reason: fmt.Sprintf("%s is above the second apron and cannot send cash", teamLabel(sender)),
		}
	}
	// Compared as headroom so huge amounts cannot wrap past the limit.
	if sender.CashSent > r.CashAnnualLimit || cash > r.CashAnnualLimit-sender.CashSent {
		total := addCapped(sender.CashSent, cash)
		return &domain.Violation{
			Rule:   domain.RuleCashLimit,
			TeamID: sender.ID,
			Reason: fmt.Sprintf("%s would send %s in trade cash this season, %s over the %s limit",
				teamLabel(sender), domain.FormatDollars(total),
				domain.FormatDollars(total-r.CashAnnualLimit), domain.FormatDollars(r.CashAnnualLimit)),
		}
	}

	horizon := currentYear + r.PickWindowYears
	for _, pick := range picks {
		if pick.Round != domain.RoundFirst || pick.Year < horizon {
			continue
		}
		tier, ok := tierOf(pick.OriginalTeamID)
		if !ok || !tier.IsStrictest() {
			continue
		}
		return &domain.Violation{
			Rule:    domain.RulePickProtection,
			TeamID:  sender.ID,
			AssetID: pick.Key().String(),
			Reason: fmt.Sprintf("%d first-round pick of %s cannot be traded: original owner is above the second apron and the pick is %d or more years out",
				pick.Year, pick.OriginalTeamID, r.PickWindowYears),
		}
	}

	return nil
}

func playerLabel(p domain.Player) string {
	if p.Name == "" {
		return p.ID
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.ID)
}

func teamLabel(t *domain.Team) string {
	if t.Name == "" {
		return t.ID
	}
	return t.Name
}

// addCapped adds two non-negative amounts, saturating at math.MaxInt64.
func addCapped(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}
