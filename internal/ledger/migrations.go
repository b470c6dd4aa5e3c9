package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version     int
	description string
	statements  []string
}

// migrations are applied in order. Append new entries; never edit applied ones.
var migrations = []migration{
	{
		version:     1,
		description: "runs",
		statements: []string{`
			CREATE TABLE runs (
				id TEXT PRIMARY KEY,
				root TEXT NOT NULL,
				started_at TEXT NOT NULL,
				finished_at TEXT,
				issues INTEGER NOT NULL DEFAULT 0,
				articles INTEGER NOT NULL DEFAULT 0,
				failed INTEGER NOT NULL DEFAULT 0
			)`,
		},
	},
	{
		version:     2,
		description: "extraction events",
		statements: []string{`
			CREATE TABLE events (
				id INTEGER PRIMARY KEY,
				run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				kind TEXT NOT NULL,
				issue_number INTEGER,
				issue TEXT NOT NULL,
				article TEXT NOT NULL,
				start_page INTEGER,
				last_index INTEGER,
				hyphens INTEGER NOT NULL DEFAULT 0,
				chars INTEGER NOT NULL DEFAULT 0,
				hyphens_per_1000 REAL NOT NULL DEFAULT 0,
				message TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX events_run ON events(run_id, kind)`,
		},
	},
	{
		version:     3,
		description: "article outcomes",
		statements: []string{`
			CREATE TABLE outcomes (
				id INTEGER PRIMARY KEY,
				run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				document TEXT NOT NULL,
				issue TEXT NOT NULL,
				position INTEGER NOT NULL,
				article TEXT NOT NULL,
				status TEXT NOT NULL,
				error TEXT NOT NULL DEFAULT '',
				start_index INTEGER,
				end_index INTEGER,
				end_marker_found INTEGER NOT NULL DEFAULT 0,
				hyphens_per_1000 REAL NOT NULL DEFAULT 0,
				output_path TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX outcomes_run ON outcomes(run_id, document, position)`,
		},
	},
	{
		version:     4,
		description: "low hyphenation count per run",
		statements: []string{
			`ALTER TABLE runs ADD COLUMN low_hyphenation INTEGER NOT NULL DEFAULT 0`,
		},
	},
}

// Migrate applies pending migrations, each in its own transaction.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		s.logger.Info("applying migration", "version", m.version, "description", m.description)
		if err := s.apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var current int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return current, nil
}

func (s *Store) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.version, err)
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
	}
	if err := record(ctx, tx, m); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", m.version, err)
	}
	return nil
}

func record(ctx context.Context, tx *sql.Tx, m migration) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, description, applied_at) VALUES (?, ?, ?)",
		m.version, m.description, now()); err != nil {
		return fmt.Errorf("recording migration %d: %w", m.version, err)
	}
	return nil
}
