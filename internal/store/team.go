package store

import (
	"context"
	"sort"
	"sync"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// TeamStore is a thread-safe in-memory store for team ledgers, keyed by
// team id. It hands out copies and enforces optimistic versioning on
// writes.
type TeamStore struct {
	mu    sync.RWMutex
	teams map[string]*domain.Team
	log   *TradeLog
}

// NewTeamStore creates an empty TeamStore that appends executed trades to
// log.
func NewTeamStore(log *TradeLog) *TeamStore {
	return &TeamStore{
		teams: make(map[string]*domain.Team),
		log:   log,
	}
}

// Create adds a team at version 1. It returns domain.ErrTeamAlreadyExists
// if the id is taken. On success t.Version is set to 1.
func (s *TeamStore) Create(_ context.Context, t *domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.teams[t.ID]; exists {
		return domain.ErrTeamAlreadyExists
	}
	t.Version = 1
	s.teams[t.ID] = t.Clone()
	return nil
}

// Get returns a copy of the team. It returns domain.ErrTeamNotFound if the
// team does not exist.
func (s *TeamStore) Get(_ context.Context, id string) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	return t.Clone(), nil
}

// List returns copies of every team ordered by id.
func (s *TeamStore) List(_ context.Context) ([]*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Team, 0, len(s.teams))
	for _, t := range s.teams {
		result = append(result, t.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Save replaces a team. t.Version must equal the stored version; on
// success both are bumped. It returns domain.ErrVersionConflict otherwise.
func (s *TeamStore) Save(_ context.Context, t *domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersion(t); err != nil {
		return err
	}
	s.put(t)
	return nil
}

// SaveTrade writes both teams and appends rec to the trade log as one
// step. Neither team is written unless both versions match.
func (s *TeamStore) SaveTrade(_ context.Context, a, b *domain.Team, rec *domain.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersion(a); err != nil {
		return err
	}
	if err := s.checkVersion(b); err != nil {
		return err
	}
	s.put(a)
	s.put(b)
	s.log.Append(rec)
	return nil
}

// Trades returns the trades a team took part in, oldest first.
func (s *TeamStore) Trades(_ context.Context, teamID string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	_, ok := s.teams[teamID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	return s.log.ForTeam(teamID), nil
}

// checkVersion must be called with s.mu held.
func (s *TeamStore) checkVersion(t *domain.Team) error {
	stored, ok := s.teams[t.ID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	if stored.Version != t.Version {
		return domain.ErrVersionConflict
	}
	return nil
}

// put must be called with s.mu held.
func (s *TeamStore) put(t *domain.Team) {
	t.Version++
	s.teams[t.ID] = t.Clone()
}
