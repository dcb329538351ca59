package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// Executor applies validated trades to two team ledgers.
type Executor struct {
	validator *Validator
	calendar  domain.Calendar
	newID     func() string
}

// NewExecutor creates an Executor that re-validates with validator before
// touching any state.
func NewExecutor(validator *Validator, calendar domain.Calendar) *Executor {
	return &Executor{
		validator: validator,
		calendar:  calendar,
		newID:     uuid.NewString,
	}
}

// Execute re-validates the proposal and, if it still passes, moves every
// asset between teamA and teamB, recomputes both payrolls, and attaches any
// generated trade exceptions.
//
// Either both teams are updated or neither is. If the proposal no longer
// validates, Execute returns an *domain.ExecutionError and leaves both
// teams untouched.
func (x *Executor) Execute(p domain.TradeProposal, teamA, teamB *domain.Team) (*domain.TradeRecord, error) {
	result := x.validator.Validate(p, teamA, teamB)
	approval, ok := result.Approval()
	if !ok {
		violation, _ := result.Violation()
		return nil, &domain.ExecutionError{Violation: violation}
	}

	now := x.calendar.Now()
	tradeID := x.newID()

	// Build both next states on copies, then swap them in together.
	nextA := teamA.Clone()
	nextB := teamB.Clone()

	moveAssets(p.TeamAOut, teamA, nextA, nextB)
	moveAssets(p.TeamBOut, teamB, nextB, nextA)

	nextA.RecomputeSalary()
	nextB.RecomputeSalary()

	expiresAt := now.Add(x.validator.rules.ExceptionTTL)
	var exceptions []domain.TradeException
	for _, side := range []struct {
		team   *domain.Team
		amount int64
	}{
		{nextA, approval.ExceptionA},
		{nextB, approval.ExceptionB},
	} {
		if side.amount <= 0 {
			continue
		}
		tpe := domain.TradeException{
			ID:        x.newID(),
			TeamID:    side.team.ID,
			TradeID:   tradeID,
			Amount:    side.amount,
			ExpiresAt: expiresAt,
			Taxpayer:  !domain.CapTierAboveSecondApron.StricterThan(side.team.CapTier),
		}
		side.team.Exceptions = append(side.team.Exceptions, tpe)
		exceptions = append(exceptions, tpe)
	}

	*teamA = *nextA
	*teamB = *nextB

	return &domain.TradeRecord{
		TradeID:    tradeID,
		Proposal:   p,
		Approval:   approval,
		Exceptions: exceptions,
		ExecutedAt: now,
	}, nil
}

// moveAssets transfers one side's outgoing assets from the sender's next
// state to the receiver's next state. Player records come from the
// sender's pre-trade roster.
func moveAssets(out []domain.TradeAsset, sender, from, to *domain.Team) {
	for _, a := range out {
		switch v := a.(type) {
		case domain.Player:
			player, _ := sender.PlayerByID(v.ID)
			from.Roster = removePlayer(from.Roster, v.ID)
			player.TeamID = to.ID
			to.Roster = append(to.Roster, player)
		case domain.DraftPick:
			key := v.Key()
			for i, pick := range from.DraftPicks {
				if pick.Key() == key {
					from.DraftPicks = append(from.DraftPicks[:i], from.DraftPicks[i+1:]...)
					to.DraftPicks = append(to.DraftPicks, pick)
					break
				}
			}
		case domain.Cash:
			from.CashSent += v.Amount
		default:
			panic(fmt.Sprintf("engine: unknown trade asset %T", a))
		}
	}
}

func removePlayer(roster []domain.Player, id string) []domain.Player {
	for i, p := range roster {
		if p.ID == id {
			return append(roster[:i], roster[i+1:]...)
		}
	}
	return roster
}
