package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/engine"
)

var teamIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// TeamService handles team registration and lookups.
type TeamService struct {
	// registerMu makes the league holdings check and the insert one step.
	registerMu sync.Mutex

	repo   TeamRepository
	rules  engine.Rules
	expiry *engine.ExpiryIndex
	logger *slog.Logger
}

// NewTeamService creates a new TeamService.
func NewTeamService(repo TeamRepository, rules engine.Rules, expiry *engine.ExpiryIndex, logger *slog.Logger) *TeamService {
	return &TeamService{
		repo:   repo,
		rules:  rules,
		expiry: expiry,
		logger: logger,
	}
}

// Register validates a new team ledger, classifies its cap tier from
// payroll when none is given, and stores it. Players and picks already
// held by another team are rejected.
func (s *TeamService) Register(ctx context.Context, t *domain.Team) (*domain.Team, error) {
	if err := validateTeam(t); err != nil {
		return nil, err
	}

	team := t.Clone()
	team.RecomputeSalary()
	if team.CapTier == domain.CapTierUnknown {
		team.CapTier = s.rules.Classify(team.TotalSalary)
	}
	for i := range team.Roster {
		team.Roster[i].TeamID = team.ID
	}
	for i := range team.Exceptions {
		if team.Exceptions[i].ID == "" {
			team.Exceptions[i].ID = uuid.NewString()
		}
		team.Exceptions[i].TeamID = team.ID
	}

	if err := s.create(ctx, team); err != nil {
		return nil, err
	}

	for _, e := range team.Exceptions {
		s.expiry.Add(e)
	}
	s.logger.Info("team registered",
		slog.String("team_id", team.ID),
		slog.String("cap_tier", team.CapTier.String()),
		slog.Int64("total_salary", team.TotalSalary),
	)
	return team, nil
}

func (s *TeamService) create(ctx context.Context, team *domain.Team) error {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if err := s.checkLeagueHoldings(ctx, team); err != nil {
		return err
	}
	return s.repo.Create(ctx, team)
}

// Get returns one team.
func (s *TeamService) Get(ctx context.Context, id string) (*domain.Team, error) {
	return s.repo.Get(ctx, id)
}

// List returns every team ordered by id.
func (s *TeamService) List(ctx context.Context) ([]*domain.Team, error) {
	return s.repo.List(ctx)
}

// Restore loads every stored exception into the expiry index. Call it once
// at startup before serving requests.
func (s *TeamService) Restore(ctx context.Context) error {
	teams, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("restore exceptions: %w", err)
	}
	n := 0
	for _, t := range teams {
		for _, e := range t.Exceptions {
			s.expiry.Add(e)
			n++
		}
	}
	s.logger.Info("exceptions restored", slog.Int("teams", len(teams)), slog.Int("exceptions", n))
	return nil
}

func (s *TeamService) checkLeagueHoldings(ctx context.Context, team *domain.Team) error {
	teams, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	for _, other := range teams {
		if other.ID == team.ID {
			return domain.ErrTeamAlreadyExists
		}
		for _, p := range team.Roster {
			if _, ok := other.PlayerByID(p.ID); ok {
				return &domain.ValidationError{
					Message: fmt.Sprintf("player %s is already on the %s roster", p.ID, other.ID),
				}
			}
		}
		for _, pick := range team.DraftPicks {
			if other.HasPick(pick.Key()) {
				return &domain.ValidationError{
					Message: fmt.Sprintf("pick %s is already owned by %s", pick.Key(), other.ID),
				}
			}
		}
	}
	return nil
}

func validateTeam(t *domain.Team) error {
	if !teamIDRegex.MatchString(t.ID) {
		return &domain.ValidationError{Message: "team id must match ^[a-zA-Z0-9_-]{1,64}$"}
	}
	if strings.TrimSpace(t.Name) == "" {
		return &domain.ValidationError{Message: "team name is required"}
	}
	if t.CapTier != domain.CapTierUnknown && !t.CapTier.Valid() {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid cap tier %s", t.CapTier)}
	}
	if t.CashSent < 0 {
		return &domain.ValidationError{Message: "cash_sent must be >= 0"}
	}

	seenPlayers := make(map[string]bool)
	for _, p := range t.Roster {
		if strings.TrimSpace(p.ID) == "" {
			return &domain.ValidationError{Message: "player id is required"}
		}
		if seenPlayers[p.ID] {
			return &domain.ValidationError{Message: fmt.Sprintf("duplicate player in roster: %s", p.ID)}
		}
		seenPlayers[p.ID] = true
		if p.TeamID != "" && p.TeamID != t.ID {
			return &domain.ValidationError{Message: fmt.Sprintf("player %s belongs to team %s", p.ID, p.TeamID)}
		}
		if !domain.ValidPositions[p.Position] {
			return &domain.ValidationError{Message: fmt.Sprintf("player %s has invalid position %q", p.ID, p.Position)}
		}
		if p.Contract.Salary < 0 {
			return &domain.ValidationError{Message: fmt.Sprintf("player %s salary must be >= 0", p.ID)}
		}
		if p.Contract.YearsRemaining < 0 {
			return &domain.ValidationError{Message: fmt.Sprintf("player %s years_remaining must be >= 0", p.ID)}
		}
	}

	seenPicks := make(map[domain.PickKey]bool)
	for _, pick := range t.DraftPicks {
		if pick.Round != domain.RoundFirst && pick.Round != domain.RoundSecond {
			return &domain.ValidationError{Message: fmt.Sprintf("pick round must be 1 or 2, got %d", pick.Round)}
		}
		if pick.Year <= 0 {
			return &domain.ValidationError{Message: fmt.Sprintf("pick year must be > 0, got %d", pick.Year)}
		}
		if strings.TrimSpace(pick.OriginalTeamID) == "" {
			return &domain.ValidationError{Message: "pick original_team_id is required"}
		}
		if seenPicks[pick.Key()] {
			return &domain.ValidationError{Message: fmt.Sprintf("duplicate pick: %s", pick.Key())}
		}
		seenPicks[pick.Key()] = true
	}

	seenExceptions := make(map[string]bool)
	for _, e := range t.Exceptions {
		if e.Amount <= 0 {
			return &domain.ValidationError{Message: "exception amount must be > 0"}
		}
		if e.ExpiresAt.IsZero() {
			return &domain.ValidationError{Message: "exception expires_at is required"}
		}
		if e.ID != "" && seenExceptions[e.ID] {
			return &domain.ValidationError{Message: fmt.Sprintf("duplicate exception: %s", e.ID)}
		}
		seenExceptions[e.ID] = true
	}
	return nil
}
