package domain

import "time"

// Position is a player's listed on-court position.
type Position string

const (
	PositionPG Position = "PG"
	PositionSG Position = "SG"
	PositionSF Position = "SF"
	PositionPF Position = "PF"
	PositionC  Position = "C"
)

// ValidPositions lists the positions a roster player may hold.
var ValidPositions = map[Position]bool{
	PositionPG: true,
	PositionSG: true,
	PositionSF: true,
	PositionPF: true,
	PositionC:  true,
}

// Contract holds the terms of a player's deal. Salary is whole dollars for
// the current season.
type Contract struct {
	Salary         int64
	YearsRemaining int
	Guaranteed     bool
}

// TradeRestriction records whether a player may currently be traded.
type TradeRestriction struct {
	Tradeable  bool
	Reason     string     // e.g. "recently signed", "one-year bird"
	UnlockDate *time.Time // nil when there is no scheduled unlock
}

// Player is a rostered player. A player belongs to exactly one team.
type Player struct {
	ID          string
	Name        string
	Position    Position
	Rating      int
	TeamID      string
	Contract    Contract
	Restriction TradeRestriction
}

// Team is a franchise's trade ledger: roster, picks, exceptions, and the
// season's running cash-sent total.
type Team struct {
	ID          string
	Name        string
	Roster      []Player
	TotalSalary int64 // always Σ Roster[i].Contract.Salary
	CapTier     CapTier
	Exceptions  []TradeException
	DraftPicks  []DraftPick
	CashSent    int64 // cash sent in trades this season
	Version     int64
}

// PlayerByID returns the rostered player with the given id.
func (t *Team) PlayerByID(id string) (Player, bool) {
	for _, p := range t.Roster {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// HasPick reports whether the team currently owns a pick with the same key.
func (t *Team) HasPick(key PickKey) bool {
	for _, p := range t.DraftPicks {
		if p.Key() == key {
			return true
		}
	}
	return false
}

// RosterSalary sums the current salaries of every rostered player.
func (t *Team) RosterSalary() int64 {
	var total int64
	for _, p := range t.Roster {
		total += p.Contract.Salary
	}
	return total
}

// RecomputeSalary resets TotalSalary from the roster.
func (t *Team) RecomputeSalary() {
	t.TotalSalary = t.RosterSalary()
}

// Clone returns a deep copy of the team. The copy shares no slices or
// pointers with t.
func (t *Team) Clone() *Team {
	if t == nil {
		return nil
	}
	c := *t
	if t.Roster != nil {
		c.Roster = make([]Player, len(t.Roster))
		for i, p := range t.Roster {
			if p.Restriction.UnlockDate != nil {
				d := *p.Restriction.UnlockDate
				p.Restriction.UnlockDate = &d
			}
			c.Roster[i] = p
		}
	}
	if t.Exceptions != nil {
		c.Exceptions = make([]TradeException, len(t.Exceptions))
		copy(c.Exceptions, t.Exceptions)
	}
	if t.DraftPicks != nil {
		c.DraftPicks = make([]DraftPick, len(t.DraftPicks))
		copy(c.DraftPicks, t.DraftPicks)
	}
	return &c
}
