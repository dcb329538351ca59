package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func newTestRecord(id, teamA, teamB string, executedAt time.Time) *domain.TradeRecord {
	return &domain.TradeRecord{
		TradeID: id,
		Proposal: domain.TradeProposal{
			TeamAID:  teamA,
			TeamBID:  teamB,
			TeamAOut: []domain.TradeAsset{domain.Player{ID: "P-" + teamA}},
			TeamBOut: []domain.TradeAsset{domain.Player{ID: "P-" + teamB}},
		},
		ExecutedAt: executedAt,
	}
}

func TestTradeLog_Append_IndexesBothTeams(t *testing.T) {
	l := NewTradeLog()
	now := time.Now()

	l.Append(newTestRecord("trade-1", "LAL", "BOS", now))
	l.Append(newTestRecord("trade-2", "BOS", "MIA", now.Add(time.Second)))

	bos := l.ForTeam("BOS")
	if len(bos) != 2 {
		t.Fatalf("expected 2 BOS trades, got %d", len(bos))
	}
	if bos[0].TradeID != "trade-1" || bos[1].TradeID != "trade-2" {
		t.Fatalf("expected trade-1 then trade-2, got %s, %s", bos[0].TradeID, bos[1].TradeID)
	}
	if got := l.ForTeam("LAL"); len(got) != 1 {
		t.Fatalf("expected 1 LAL trade, got %d", len(got))
	}
	if got := l.ForTeam("MIA"); len(got) != 1 || got[0].TradeID != "trade-2" {
		t.Fatalf("expected MIA to see trade-2, got %v", got)
	}
}

func TestTradeLog_ForTeam_Empty(t *testing.T) {
	l := NewTradeLog()

	trades := l.ForTeam("SAS")
	if trades == nil {
		t.Fatal("expected non-nil empty slice, got nil")
	}
	if len(trades) != 0 {
		t.Fatalf("expected 0 trades, got %d", len(trades))
	}
}

func TestTradeLog_ForTeam_ReturnsCopy(t *testing.T) {
	l := NewTradeLog()
	l.Append(newTestRecord("trade-1", "LAL", "BOS", time.Now()))

	trades := l.ForTeam("LAL")
	trades[0] = nil // mutate the returned slice

	// Internal state should be unaffected.
	if original := l.ForTeam("LAL"); original[0] == nil {
		t.Fatal("ForTeam should return a copy; internal state was mutated")
	}
}

func TestTradeLog_ConcurrentAppend(t *testing.T) {
	l := NewTradeLog()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Append(newTestRecord(fmt.Sprintf("trade-%d", i), "LAL", "BOS", time.Now()))
		}(i)
	}
	wg.Wait()

	if got := len(l.ForTeam("LAL")); got != 100 {
		t.Fatalf("expected 100 LAL trades, got %d", got)
	}
	if got := len(l.ForTeam("BOS")); got != 100 {
		t.Fatalf("expected 100 BOS trades, got %d", got)
	}
}
