package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackzampolin/folio/internal/article"
)

// RunRecord is a stored run.
type RunRecord struct {
	ID         string `json:"id"`
	Root       string `json:"root"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
	Summary
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root, started_at, finished_at, issues, articles, failed, low_hyphenation
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var finished sql.NullString
		if err := rows.Scan(&r.ID, &r.Root, &r.StartedAt, &finished,
			&r.Issues, &r.Articles, &r.Failed, &r.LowHyphenation); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.FinishedAt = finished.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Events returns the events of a run in the order they were recorded.
func (s *Store) Events(ctx context.Context, runID string) ([]article.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, issue_number, issue, article, start_page, last_index, hyphens, chars, hyphens_per_1000
		FROM events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []article.Event
	for rows.Next() {
		var e article.Event
		var kind string
		var number, start, last sql.NullInt64
		if err := rows.Scan(&kind, &number, &e.Issue, &e.Article, &start, &last,
			&e.Hyphens, &e.Chars, &e.HyphensPer1000); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Kind = article.EventKind(kind)
		e.IssueNumber, e.StartPage, e.LastIndex = intPtr(number), intPtr(start), intPtr(last)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Outcomes returns the article outcomes of a run ordered by document and
// position.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document, issue, position, article, status, error, start_index, end_index,
			end_marker_found, hyphens_per_1000, output_path
		FROM outcomes WHERE run_id = ? ORDER BY document, position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		var start, end sql.NullInt64
		if err := rows.Scan(&o.Document, &o.Issue, &o.Position, &o.Article, &o.Status, &o.Error,
			&start, &end, &o.EndMarkerFound, &o.HyphensPer1000, &o.OutputPath); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.StartIndex, o.EndIndex = intPtr(start), intPtr(end)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
