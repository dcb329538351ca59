package engine

import (
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

var testNow = time.Date(2019, time.July, 1, 12, 0, 0, 0, time.UTC)

func testCalendar(year int) domain.FixedCalendar {
	return domain.FixedCalendar{Year: year, Date: testNow}
}

func newTestValidator(year int) *Validator {
	return NewValidator(DefaultRules(), testCalendar(year))
}

func newTestExecutor(year int) *Executor {
	cal := testCalendar(year)
	return NewExecutor(NewValidator(DefaultRules(), cal), cal)
}

func player(id, name, teamID string, salary int64) domain.Player {
	return domain.Player{
		ID:          id,
		Name:        name,
		Position:    domain.PositionSF,
		TeamID:      teamID,
		Contract:    domain.Contract{Salary: salary, YearsRemaining: 2, Guaranteed: true},
		Restriction: domain.TradeRestriction{Tradeable: true},
	}
}

// newLakers returns a second-apron team with two stars and its own 2026
// first-rounder.
func newLakers() *domain.Team {
	t := &domain.Team{
		ID:   "LAL",
		Name: "Los Angeles",
		Roster: []domain.Player{
			player("P001", "LeBron James", "LAL", 47_600_000),
			player("P002", "Anthony Davis", "LAL", 43_200_000),
		},
		CapTier:    domain.CapTierAboveSecondApron,
		DraftPicks: []domain.DraftPick{{Year: 2026, Round: domain.RoundFirst, OriginalTeamID: "LAL"}},
	}
	t.RecomputeSalary()
	return t
}

// newCeltics returns an over-the-cap team below the first apron holding an
// existing exception.
func newCeltics() *domain.Team {
	t := &domain.Team{
		ID:   "BOS",
		Name: "Boston",
		Roster: []domain.Player{
			player("P003", "Jayson Tatum", "BOS", 34_800_000),
			player("P004", "Jaylen Brown", "BOS", 31_800_000),
			player("P005", "Marcus Smart", "BOS", 20_000_000),
		},
		CapTier: domain.CapTierAboveCapBelowFirstApron,
		Exceptions: []domain.TradeException{
			{ID: "TPE001", TeamID: "BOS", Amount: 5_000_000, ExpiresAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		},
		DraftPicks: []domain.DraftPick{
			{Year: 2025, Round: domain.RoundFirst, OriginalTeamID: "BOS", Protected: true, ProtectionDetails: "top 5 protected"},
		},
	}
	t.RecomputeSalary()
	return t
}

func ref(id string) domain.Player {
	return domain.Player{ID: id}
}
