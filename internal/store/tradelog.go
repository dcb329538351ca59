package store

import (
	"sync"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// TradeLog is a thread-safe in-memory log of executed trades, indexed by
// both participating teams. Records are append-only and chronological.
type TradeLog struct {
	mu     sync.RWMutex
	trades map[string][]*domain.TradeRecord // team_id → trades (chronological)
}

// NewTradeLog creates an empty TradeLog.
func NewTradeLog() *TradeLog {
	return &TradeLog{
		trades: make(map[string][]*domain.TradeRecord),
	}
}

// Append adds a trade to both teams' histories.
func (l *TradeLog) Append(rec *domain.TradeRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.trades[rec.Proposal.TeamAID] = append(l.trades[rec.Proposal.TeamAID], rec)
	l.trades[rec.Proposal.TeamBID] = append(l.trades[rec.Proposal.TeamBID], rec)
}

// ForTeam returns all trades involving a team in chronological order.
// Returns an empty slice if the team has none.
func (l *TradeLog) ForTeam(teamID string) []*domain.TradeRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trades := l.trades[teamID]
	if trades == nil {
		return []*domain.TradeRecord{}
	}

	// Return a copy to avoid callers mutating the internal slice.
	result := make([]*domain.TradeRecord, len(trades))
	copy(result, trades)
	return result
}
