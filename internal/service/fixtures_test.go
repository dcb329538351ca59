package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/engine"
	"github.com/efreitasn/tradedesk/internal/store"
)

var testNow = time.Date(2019, time.July, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	repo   *store.TeamStore
	expiry *engine.ExpiryIndex
	teams  *TeamService
	trades *TradeService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T, year int) *testEnv {
	t.Helper()
	cal := domain.FixedCalendar{Year: year, Date: testNow}
	rules := engine.DefaultRules()
	repo := store.NewTeamStore(store.NewTradeLog())
	expiry := engine.NewExpiryIndex(time.Second, cal, discardLogger())
	return &testEnv{
		repo:   repo,
		expiry: expiry,
		teams:  NewTeamService(repo, rules, expiry, discardLogger()),
		trades: NewTradeService(repo, rules, cal, expiry, time.Minute, discardLogger()),
	}
}

func player(id, name string, position domain.Position, salary int64) domain.Player {
	return domain.Player{
		ID:          id,
		Name:        name,
		Position:    position,
		Contract:    domain.Contract{Salary: salary, YearsRemaining: 2, Guaranteed: true},
		Restriction: domain.TradeRestriction{Tradeable: true},
	}
}

func lakers() *domain.Team {
	return &domain.Team{
		ID:   "LAL",
		Name: "Los Angeles",
		Roster: []domain.Player{
			player("P001", "LeBron James", domain.PositionSF, 47_600_000),
			player("P002", "Anthony Davis", domain.PositionPF, 43_200_000),
		},
		CapTier:    domain.CapTierAboveSecondApron,
		DraftPicks: []domain.DraftPick{{Year: 2026, Round: domain.RoundFirst, OriginalTeamID: "LAL"}},
	}
}

func celtics() *domain.Team {
	return &domain.Team{
		ID:   "BOS",
		Name: "Boston",
		Roster: []domain.Player{
			player("P003", "Jayson Tatum", domain.PositionSF, 34_800_000),
			player("P004", "Jaylen Brown", domain.PositionSG, 31_800_000),
			player("P005", "Marcus Smart", domain.PositionPG, 20_000_000),
		},
		CapTier: domain.CapTierAboveCapBelowFirstApron,
		Exceptions: []domain.TradeException{
			{ID: "TPE001", Amount: 5_000_000, ExpiresAt: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)},
		},
		DraftPicks: []domain.DraftPick{
			{Year: 2025, Round: domain.RoundFirst, OriginalTeamID: "BOS", Protected: true, ProtectionDetails: "top 5 protected"},
		},
	}
}

// seed registers LAL and BOS.
func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, team := range []*domain.Team{lakers(), celtics()} {
		if _, err := e.teams.Register(ctx, team); err != nil {
			t.Fatalf("register %s: %v", team.ID, err)
		}
	}
}

func ref(id string) domain.Player {
	return domain.Player{ID: id}
}

// swapDavisForTatum is valid in 2019: LAL keeps an $8.4M exception.
func swapDavisForTatum() domain.TradeProposal {
	return domain.TradeProposal{
		TeamAID:  "LAL",
		TeamBID:  "BOS",
		TeamAOut: []domain.TradeAsset{ref("P002")},
		TeamBOut: []domain.TradeAsset{ref("P003")},
	}
}
