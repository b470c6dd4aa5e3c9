// Package ledger records batch runs in a SQLite database: when each run
// started and finished, the quality events raised while extracting, and the
// outcome of every article.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jackzampolin/folio/internal/article"
)

// Store wraps the ledger database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the ledger at path and applies pending migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging ledger: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, logger: logger.With("component", "ledger")}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Run is an open batch run. It is safe for concurrent use.
type Run struct {
	ID    string
	store *Store
}

// StartRun records the start of a run over root.
func (s *Store) StartRun(ctx context.Context, root string) (*Run, error) {
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)`, id, root, now()); err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}
	s.logger.Debug("run started", "run_id", id, "root", root)
	return &Run{ID: id, store: s}, nil
}

// Summary holds the totals written when a run finishes.
type Summary struct {
	Issues         int `json:"issues"`
	Articles       int `json:"articles"`
	Failed         int `json:"failed"`
	LowHyphenation int `json:"low_hyphenation"`
}

// Finish records the end of the run.
func (r *Run) Finish(ctx context.Context, sum Summary) error {
	if _, err := r.store.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, issues = ?, articles = ?, failed = ?, low_hyphenation = ?
		WHERE id = ?`,
		now(), sum.Issues, sum.Articles, sum.Failed, sum.LowHyphenation, r.ID); err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// Emit stores an extraction event. Storage errors are logged; they never
// interrupt extraction.
func (r *Run) Emit(ctx context.Context, e article.Event) {
	_, err := r.store.db.ExecContext(context.WithoutCancel(ctx), `
		INSERT INTO events (run_id, kind, issue_number, issue, article, start_page, last_index,
			hyphens, chars, hyphens_per_1000, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(e.Kind), nullInt(e.IssueNumber), e.Issue, e.Article, nullInt(e.StartPage), nullInt(e.LastIndex),
		e.Hyphens, e.Chars, e.HyphensPer1000, e.Message(), now())
	if err != nil {
		r.store.logger.Error("failed to record event", "run_id", r.ID, "kind", e.Kind, "error", err)
	}
}

var _ article.Sink = (*Run)(nil)

// Outcome is the result of one article in a run.
type Outcome struct {
	Document       string  `json:"document" yaml:"document"`
	Issue          string  `json:"issue" yaml:"issue"`
	Position       int     `json:"position" yaml:"position"` // 1-based position in the issue's article list
	Article        string  `json:"article" yaml:"article"`
	Status         string  `json:"status" yaml:"status"`
	Error          string  `json:"error,omitempty" yaml:"error,omitempty"`
	StartIndex     *int    `json:"start_index,omitempty" yaml:"start_index,omitempty"`
	EndIndex       *int    `json:"end_index,omitempty" yaml:"end_index,omitempty"`
	EndMarkerFound bool    `json:"end_marker_found" yaml:"end_marker_found"`
	HyphensPer1000 float64 `json:"hyphens_per_1000" yaml:"hyphens_per_1000"`
	OutputPath     string  `json:"output_path,omitempty" yaml:"output_path,omitempty"`
}

// RecordOutcome stores the outcome of one article.
func (r *Run) RecordOutcome(ctx context.Context, o Outcome) error {
	_, err := r.store.db.ExecContext(context.WithoutCancel(ctx), `
		INSERT INTO outcomes (run_id, document, issue, position, article, status, error,
			start_index, end_index, end_marker_found, hyphens_per_1000, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, o.Document, o.Issue, o.Position, o.Article, o.Status, o.Error,
		nullInt(o.StartIndex), nullInt(o.EndIndex), o.EndMarkerFound, o.HyphensPer1000, o.OutputPath, now())
	if err != nil {
		return fmt.Errorf("recording outcome of %s article %d: %w", o.Issue, o.Position, err)
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
