// Package sqlite provides a SQLite-backed team repository.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/store/sqlite/migrations"
	"github.com/efreitasn/tradedesk/internal/wire"
)

// Store persists team ledgers and the trade log in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite team store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrateUp(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Rollback reverts the newest steps schema migrations and returns the
// names of the files it reverted. The store is unusable for team data
// afterwards until it is reopened.
func (s *Store) Rollback(ctx context.Context, steps int) ([]string, error) {
	return migrateDown(ctx, s.sqlDB, migrations.FS, steps)
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create inserts a team at version 1. It returns
// domain.ErrTeamAlreadyExists if the id is taken. On success t.Version is
// set to 1.
func (s *Store) Create(ctx context.Context, t *domain.Team) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if !t.CapTier.Valid() {
		return fmt.Errorf("team %s has no cap tier", t.ID)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO teams (id, name, cap_tier, cash_sent, version) VALUES (?, ?, ?, ?, 1)`,
		t.ID, t.Name, t.CapTier.String(), t.CashSent,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTeamAlreadyExists
		}
		return fmt.Errorf("insert team: %w", err)
	}
	if err := insertHoldings(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team: %w", err)
	}
	t.Version = 1
	return nil
}

// Get loads one team. It returns domain.ErrTeamNotFound if the team does
// not exist.
func (s *Store) Get(ctx context.Context, id string) (*domain.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return loadTeam(ctx, s.sqlDB, id)
}

// List loads every team ordered by id from one consistent snapshot.
func (s *Store) List(ctx context.Context) ([]*domain.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	teams := make([]*domain.Team, 0, len(ids))
	for _, id := range ids {
		t, err := loadTeam(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// Save replaces a team. t.Version must equal the stored version; on
// success both are bumped. It returns domain.ErrVersionConflict otherwise.
func (s *Store) Save(ctx context.Context, t *domain.Team) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := updateTeams(ctx, tx, t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team: %w", err)
	}
	t.Version++
	return nil
}

// SaveTrade writes both teams and the trade record in one transaction.
// Neither team is written unless both versions match.
func (s *Store) SaveTrade(ctx context.Context, a, b *domain.Team, rec *domain.TradeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(wire.FromTradeRecord(rec))
	if err != nil {
		return fmt.Errorf("encode trade record: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := updateTeams(ctx, tx, a, b); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO trades (id, team_a_id, team_b_id, executed_at, record) VALUES (?, ?, ?, ?, ?)`,
		rec.TradeID, rec.Proposal.TeamAID, rec.Proposal.TeamBID, toMillis(rec.ExecutedAt), string(payload),
	); err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trade: %w", err)
	}
	a.Version++
	b.Version++
	return nil
}

// Trades returns the trades a team took part in, oldest first.
func (s *Store) Trades(ctx context.Context, teamID string) ([]*domain.TradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := teamExists(ctx, s.sqlDB, teamID); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT record FROM trades
		  WHERE team_a_id = ? OR team_b_id = ?
		  ORDER BY executed_at, rowid`,
		teamID, teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	records := []*domain.TradeRecord{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		var w wire.TradeRecord
		if err := json.Unmarshal([]byte(payload), &w); err != nil {
			return nil, fmt.Errorf("decode trade record: %w", err)
		}
		rec, err := w.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("decode trade record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return records, nil
}

// updateTeams checks and bumps each team's version, then rewrites their
// holdings. Holdings of every team are cleared before any are reinserted
// so assets can move between the teams within one transaction.
func updateTeams(ctx context.Context, tx *sql.Tx, teams ...*domain.Team) error {
	for _, t := range teams {
		if !t.CapTier.Valid() {
			return fmt.Errorf("team %s has no cap tier", t.ID)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE teams
			    SET name = ?, cap_tier = ?, cash_sent = ?, version = version + 1
			  WHERE id = ? AND version = ?`,
			t.Name, t.CapTier.String(), t.CashSent, t.ID, t.Version,
		)
		if err != nil {
			return fmt.Errorf("update team %s: %w", t.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update team %s: %w", t.ID, err)
		}
		if n == 0 {
			if err := teamExists(ctx, tx, t.ID); err != nil {
				return err
			}
			return domain.ErrVersionConflict
		}
	}

	for _, t := range teams {
		for _, table := range []string{"players", "draft_picks", "trade_exceptions"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE team_id = ?", t.ID); err != nil {
				return fmt.Errorf("clear %s for %s: %w", table, t.ID, err)
			}
		}
	}
	for _, t := range teams {
		if err := insertHoldings(ctx, tx, t); err != nil {
			return err
		}
	}
	return nil
}

func insertHoldings(ctx context.Context, tx *sql.Tx, t *domain.Team) error {
	for i, p := range t.Roster {
		var unlock sql.NullInt64
		if p.Restriction.UnlockDate != nil {
			unlock = sql.NullInt64{Int64: toMillis(*p.Restriction.UnlockDate), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO players (
			   id, team_id, slot, name, position, rating,
			   salary, years_remaining, guaranteed,
			   tradeable, restriction_reason, unlock_date
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, t.ID, i, p.Name, string(p.Position), p.Rating,
			p.Contract.Salary, p.Contract.YearsRemaining, p.Contract.Guaranteed,
			p.Restriction.Tradeable, p.Restriction.Reason, unlock,
		); err != nil {
			if isUniqueViolation(err) {
				return &domain.ValidationError{Message: fmt.Sprintf("player %s is already on a roster", p.ID)}
			}
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}
	for i, pick := range t.DraftPicks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO draft_picks (
			   year, round, original_team_id, team_id, slot, protected, protection_details
			 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			pick.Year, int(pick.Round), pick.OriginalTeamID, t.ID, i, pick.Protected, pick.ProtectionDetails,
		); err != nil {
			if isUniqueViolation(err) {
				return &domain.ValidationError{Message: fmt.Sprintf("pick %s is already owned", pick.Key())}
			}
			return fmt.Errorf("insert pick %s: %w", pick.Key(), err)
		}
	}
	for i, e := range t.Exceptions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trade_exceptions (
			   id, team_id, slot, trade_id, amount, expires_at, taxpayer
			 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, t.ID, i, e.TradeID, e.Amount, toMillis(e.ExpiresAt), e.Taxpayer,
		); err != nil {
			return fmt.Errorf("insert exception %s: %w", e.ID, err)
		}
	}
	return nil
}

func loadTeam(ctx context.Context, q querier, id string) (*domain.Team, error) {
	var (
		t    domain.Team
		tier string
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, name, cap_tier, cash_sent, version FROM teams WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &tier, &t.CashSent, &t.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	if t.CapTier, err = domain.ParseCapTier(tier); err != nil {
		return nil, fmt.Errorf("get team %s: %w", id, err)
	}

	if t.Roster, err = loadPlayers(ctx, q, id); err != nil {
		return nil, err
	}
	if t.DraftPicks, err = loadPicks(ctx, q, id); err != nil {
		return nil, err
	}
	if t.Exceptions, err = loadExceptions(ctx, q, id); err != nil {
		return nil, err
	}
	t.RecomputeSalary()
	return &t, nil
}

func loadPlayers(ctx context.Context, q querier, teamID string) ([]domain.Player, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, position, rating, salary, years_remaining, guaranteed,
		        tradeable, restriction_reason, unlock_date
		   FROM players
		  WHERE team_id = ?
		  ORDER BY slot`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var (
			p        domain.Player
			position string
			unlock   sql.NullInt64
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &position, &p.Rating,
			&p.Contract.Salary, &p.Contract.YearsRemaining, &p.Contract.Guaranteed,
			&p.Restriction.Tradeable, &p.Restriction.Reason, &unlock,
		); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Position = domain.Position(position)
		p.TeamID = teamID
		if unlock.Valid {
			d := fromMillis(unlock.Int64)
			p.Restriction.UnlockDate = &d
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func loadPicks(ctx context.Context, q querier, teamID string) ([]domain.DraftPick, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT year, round, original_team_id, protected, protection_details
		   FROM draft_picks
		  WHERE team_id = ?
		  ORDER BY slot`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	defer rows.Close()

	var picks []domain.DraftPick
	for rows.Next() {
		var (
			pick  domain.DraftPick
			round int
		)
		if err := rows.Scan(&pick.Year, &round, &pick.OriginalTeamID, &pick.Protected, &pick.ProtectionDetails); err != nil {
			return nil, fmt.Errorf("scan pick: %w", err)
		}
		pick.Round = domain.PickRound(round)
		picks = append(picks, pick)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	return picks, nil
}

func loadExceptions(ctx context.Context, q querier, teamID string) ([]domain.TradeException, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, trade_id, amount, expires_at, taxpayer
		   FROM trade_exceptions
		  WHERE team_id = ?
		  ORDER BY slot`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []domain.TradeException
	for rows.Next() {
		var (
			e         domain.TradeException
			expiresAt int64
		)
		if err := rows.Scan(&e.ID, &e.TradeID, &e.Amount, &expiresAt, &e.Taxpayer); err != nil {
			return nil, fmt.Errorf("scan exception: %w", err)
		}
		e.TeamID = teamID
		e.ExpiresAt = fromMillis(expiresAt)
		exceptions = append(exceptions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list exceptions: %w", err)
	}
	return exceptions, nil
}

func teamExists(ctx context.Context, q querier, id string) error {
	var found int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM teams WHERE id = ?`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTeamNotFound
		}
		return fmt.Errorf("check team %s: %w", id, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
