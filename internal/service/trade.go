package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/engine"
)

// TradeService validates and settles trades against stored team ledgers.
type TradeService struct {
	repo      TeamRepository
	validator *engine.Validator
	executor  *engine.Executor
	expiry    *engine.ExpiryIndex
	calendar  domain.Calendar
	cache     *gocache.Cache
	locks     *teamLocks
	logger    *slog.Logger
}

// NewTradeService creates a new TradeService. Validation results are
// cached for cacheTTL, keyed by the proposal and both teams' versions.
func NewTradeService(
	repo TeamRepository,
	rules engine.Rules,
	calendar domain.Calendar,
	expiry *engine.ExpiryIndex,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *TradeService {
	validator := engine.NewValidator(rules, calendar)
	return &TradeService{
		repo:      repo,
		validator: validator,
		executor:  engine.NewExecutor(validator, calendar),
		expiry:    expiry,
		calendar:  calendar,
		cache:     gocache.New(cacheTTL, cacheTTL*2),
		locks:     newTeamLocks(),
		logger:    logger,
	}
}

// Validate checks a proposal against the current state of both teams.
// Unknown teams produce an unknown_team violation, not an error.
func (s *TradeService) Validate(ctx context.Context, p domain.TradeProposal) (domain.ValidationResult, error) {
	a, err := s.resolve(ctx, p.TeamAID)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	b, err := s.resolve(ctx, p.TeamBID)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	if a == nil || b == nil {
		return s.validator.Validate(p, a, b), nil
	}

	key := cacheKey(p, a, b, s.calendar.SeasonYear())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(domain.ValidationResult), nil
	}
	result := s.validator.Validate(p, a, b)
	s.cache.Set(key, result, gocache.DefaultExpiration)

	s.logger.Debug("trade validated",
		slog.String("team_a", p.TeamAID),
		slog.String("team_b", p.TeamBID),
		slog.Bool("valid", result.Valid()),
	)
	return result, nil
}

// Execute re-validates and settles a proposal. Both teams are locked for
// the whole validate-then-write step. It returns domain.ErrTeamNotFound
// for an unknown team and a *domain.ExecutionError when the trade is not
// valid.
func (s *TradeService) Execute(ctx context.Context, p domain.TradeProposal) (*domain.TradeRecord, error) {
	unlock := s.locks.lock(p.TeamAID, p.TeamBID)
	defer unlock()

	a, err := s.repo.Get(ctx, p.TeamAID)
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", p.TeamAID, err)
	}
	b, err := s.repo.Get(ctx, p.TeamBID)
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", p.TeamBID, err)
	}

	rec, err := s.executor.Execute(p, a, b)
	if err != nil {
		var execErr *domain.ExecutionError
		if errors.As(err, &execErr) {
			s.logger.Info("trade rejected",
				slog.String("team_a", p.TeamAID),
				slog.String("team_b", p.TeamBID),
				slog.String("rule", string(execErr.Violation.Rule)),
			)
		}
		return nil, err
	}

	if err := s.repo.SaveTrade(ctx, a, b, rec); err != nil {
		return nil, fmt.Errorf("save trade: %w", err)
	}
	for _, e := range rec.Exceptions {
		s.expiry.Add(e)
	}

	s.logger.Info("trade executed",
		slog.String("trade_id", rec.TradeID),
		slog.String("team_a", p.TeamAID),
		slog.String("team_b", p.TeamBID),
		slog.Int("exceptions", len(rec.Exceptions)),
	)
	return rec, nil
}

// History returns the trades a team took part in, oldest first.
func (s *TradeService) History(ctx context.Context, teamID string) ([]*domain.TradeRecord, error) {
	return s.repo.Trades(ctx, teamID)
}

// ExpireExceptions removes lapsed exceptions from their teams. Teams that
// no longer hold an exception are skipped, so retrying a partly applied
// batch is safe.
func (s *TradeService) ExpireExceptions(ctx context.Context, due []engine.ExpiringException) error {
	byTeam := make(map[string]map[string]bool)
	for _, e := range due {
		if byTeam[e.TeamID] == nil {
			byTeam[e.TeamID] = make(map[string]bool)
		}
		byTeam[e.TeamID][e.ExceptionID] = true
	}
	teamIDs := make([]string, 0, len(byTeam))
	for id := range byTeam {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	for _, id := range teamIDs {
		if err := s.expireTeam(ctx, id, byTeam[id]); err != nil {
			return err
		}
	}
	return nil
}

func (s *TradeService) expireTeam(ctx context.Context, teamID string, ids map[string]bool) error {
	unlock := s.locks.lock(teamID)
	defer unlock()

	team, err := s.repo.Get(ctx, teamID)
	if errors.Is(err, domain.ErrTeamNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("team %s: %w", teamID, err)
	}

	now := s.calendar.Now()
	var kept []domain.TradeException
	removed := 0
	for _, e := range team.Exceptions {
		if ids[e.ID] || e.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return nil
	}
	team.Exceptions = kept

	if err := s.repo.Save(ctx, team); err != nil {
		return fmt.Errorf("expire exceptions for %s: %w", teamID, err)
	}
	s.logger.Info("exceptions expired",
		slog.String("team_id", teamID),
		slog.Int("count", removed),
	)
	return nil
}

// resolve returns nil without error for an unknown team.
func (s *TradeService) resolve(ctx context.Context, id string) (*domain.Team, error) {
	t, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrTeamNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", id, err)
	}
	return t, nil
}

// cacheKey identifies a validation: the proposal's assets in order, both
// teams' versions, and the season year.
func cacheKey(p domain.TradeProposal, a, b *domain.Team, year int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|%s@%d|%s@%d", year, a.ID, a.Version, b.ID, b.Version)
	for _, side := range [][]domain.TradeAsset{p.TeamAOut, p.TeamBOut} {
		sb.WriteString("|")
		for _, asset := range side {
			switch v := asset.(type) {
			case domain.Player:
				fmt.Fprintf(&sb, "p:%s,", v.ID)
			case domain.DraftPick:
				fmt.Fprintf(&sb, "d:%s,", v.Key())
			case domain.Cash:
				fmt.Fprintf(&sb, "c:%d,", v.Amount)
			}
		}
	}
	return sb.String()
}
