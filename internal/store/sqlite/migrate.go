package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// migration is one embedded .sql file split at its direction markers.
type migration struct {
	name string
	up   string
	down string
}

// loadMigrations reads every .sql file at the root of fsys, sorted by name.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	slices.Sort(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		up, down := splitMigration(string(raw))
		out = append(out, migration{name: path.Base(name), up: up, down: down})
	}
	return out, nil
}

// splitMigration returns the Up and Down sections of a migration file. A
// file without an Up marker is all Up.
func splitMigration(content string) (up, down string) {
	before, after, found := strings.Cut(content, downMarker)
	if found {
		down = after
	}
	if _, rest, ok := strings.Cut(before, upMarker); ok {
		return rest, down
	}
	if found {
		return "", down
	}
	return content, ""
}

// appliedMigrations creates the bookkeeping table if needed and returns the
// recorded migration names sorted by name.
func appliedMigrations(ctx context.Context, sqlDB *sql.DB) ([]string, error) {
	if _, err := sqlDB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	rows, err := sqlDB.QueryContext(ctx, `SELECT name FROM schema_migrations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// migrateUp applies every pending migration in name order. Each file runs in
// its own transaction together with its bookkeeping row.
func migrateUp(ctx context.Context, sqlDB *sql.DB, fsys fs.FS) error {
	all, err := loadMigrations(fsys)
	if err != nil {
		return err
	}
	applied, err := appliedMigrations(ctx, sqlDB)
	if err != nil {
		return err
	}

	for _, m := range all {
		if slices.Contains(applied, m.name) {
			continue
		}
		err := inTx(ctx, sqlDB, func(tx *sql.Tx) error {
			if strings.TrimSpace(m.up) != "" {
				if _, err := tx.ExecContext(ctx, m.up); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
				m.name, toMillis(time.Now()))
			return err
		})
		if err != nil {
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
	}
	return nil
}

// migrateDown reverts up to steps applied migrations, newest first, and
// returns the names it reverted. A migration with no Down section stops
// the rollback with an error.
func migrateDown(ctx context.Context, sqlDB *sql.DB, fsys fs.FS, steps int) ([]string, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	all, err := loadMigrations(fsys)
	if err != nil {
		return nil, err
	}
	applied, err := appliedMigrations(ctx, sqlDB)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]migration, len(all))
	for _, m := range all {
		byName[m.name] = m
	}

	var reverted []string
	for i := len(applied) - 1; i >= 0 && len(reverted) < steps; i-- {
		name := applied[i]
		m, ok := byName[name]
		if !ok {
			return reverted, fmt.Errorf("revert %s: migration file not found", name)
		}
		if strings.TrimSpace(m.down) == "" {
			return reverted, fmt.Errorf("revert %s: no down section", name)
		}
		err := inTx(ctx, sqlDB, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE name = ?`, name)
			return err
		})
		if err != nil {
			return reverted, fmt.Errorf("revert %s: %w", name, err)
		}
		reverted = append(reverted, name)
	}
	return reverted, nil
}

func inTx(ctx context.Context, sqlDB *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
