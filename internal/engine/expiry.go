package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// ExpiringException is an index entry for one live trade exception.
type ExpiringException struct {
	ExpiresAt   time.Time
	ExceptionID string
	TeamID      string
}

// expiryLess orders entries by expires_at ascending, then exception id, so
// Min() is always the next exception to lapse.
func expiryLess(a, b ExpiringException) bool {
	if !a.ExpiresAt.Equal(b.ExpiresAt) {
		return a.ExpiresAt.Before(b.ExpiresAt)
	}
	return a.ExceptionID < b.ExceptionID
}

// ExceptionExpirer removes lapsed exceptions from the teams that hold them.
type ExceptionExpirer interface {
	ExpireExceptions(ctx context.Context, due []ExpiringException) error
}

// ExpiryIndex tracks live trade exceptions in a B-tree keyed by expiration
// and periodically hands the lapsed ones to an ExceptionExpirer.
type ExpiryIndex struct {
	interval time.Duration
	calendar domain.Calendar
	logger   *slog.Logger

	mu    sync.Mutex // protects tree and index
	tree  *btree.BTreeG[ExpiringException]
	index map[string]ExpiringException // exception_id → entry
}

// NewExpiryIndex creates an empty index that checks for lapsed exceptions
// every interval, using calendar for the current date.
func NewExpiryIndex(interval time.Duration, calendar domain.Calendar, logger *slog.Logger) *ExpiryIndex {
	const degree = 32
	return &ExpiryIndex{
		interval: interval,
		calendar: calendar,
		logger:   logger,
		tree:     btree.NewG[ExpiringException](degree, expiryLess),
		index:    make(map[string]ExpiringException),
	}
}

// Add starts tracking an exception. Re-adding an id replaces its entry.
func (x *ExpiryIndex) Add(e domain.TradeException) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if old, ok := x.index[e.ID]; ok {
		x.tree.Delete(old)
	}
	entry := ExpiringException{ExpiresAt: e.ExpiresAt, ExceptionID: e.ID, TeamID: e.TeamID}
	x.tree.ReplaceOrInsert(entry)
	x.index[e.ID] = entry
}

// Remove stops tracking an exception. Unknown ids are ignored.
func (x *ExpiryIndex) Remove(exceptionID string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	entry, ok := x.index[exceptionID]
	if !ok {
		return
	}
	delete(x.index, exceptionID)
	x.tree.Delete(entry)
}

// Due returns every tracked exception with expires_at <= now, earliest
// first. It does not remove them.
func (x *ExpiryIndex) Due(now time.Time) []ExpiringException {
	x.mu.Lock()
	defer x.mu.Unlock()

	var due []ExpiringException
	x.tree.Ascend(func(e ExpiringException) bool {
		if e.ExpiresAt.After(now) {
			return false
		}
		due = append(due, e)
		return true
	})
	return due
}

// Len returns the number of tracked exceptions.
func (x *ExpiryIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.tree.Len()
}

// Start launches a background goroutine that ticks at the configured
// interval and expires lapsed exceptions through expirer. It stops when
// ctx is cancelled.
func (x *ExpiryIndex) Start(ctx context.Context, expirer ExceptionExpirer) {
	go func() {
		ticker := time.NewTicker(x.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				x.Sweep(ctx, expirer)
			}
		}
	}()
}

// Sweep expires everything due at the calendar's current date. Entries
// stay in the index if the expirer fails, so the next sweep retries them.
func (x *ExpiryIndex) Sweep(ctx context.Context, expirer ExceptionExpirer) int {
	due := x.Due(x.calendar.Now())
	if len(due) == 0 {
		return 0
	}

	if err := expirer.ExpireExceptions(ctx, due); err != nil {
		if x.logger != nil {
			x.logger.Warn("exception expiry failed",
				slog.Int("due", len(due)),
				slog.String("error", err.Error()),
			)
		}
		return 0
	}

	for _, e := range due {
		x.Remove(e.ExceptionID)
	}
	return len(due)
}
