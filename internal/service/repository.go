package service

import (
	"context"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// TeamRepository persists team ledgers and the trade log. Implementations
// return detached copies from reads and reject writes whose Version does
// not match the stored one with domain.ErrVersionConflict.
type TeamRepository interface {
	Create(ctx context.Context, t *domain.Team) error
	Get(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	Save(ctx context.Context, t *domain.Team) error
	// SaveTrade writes both teams and the record atomically.
	SaveTrade(ctx context.Context, a, b *domain.Team, rec *domain.TradeRecord) error
	Trades(ctx context.Context, teamID string) ([]*domain.TradeRecord, error)
}
