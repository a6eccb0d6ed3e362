package registry

import (
	"context"
	"fmt"
	"time"
)

// Run is one recorded ingestion of a cleaned dataset.
type Run struct {
	RunID      string
	RunDate    string // "2006-01-02"
	SourceFile string
	RowsLoaded int
	CreatedAt  time.Time
	ModelTag   string
}

// NewRunID builds the canonical run identifier for a run date at an instant.
func NewRunID(runDate string, now time.Time) string {
	return fmt.Sprintf("run_%s_%s", runDate, now.UTC().Format("20060102T150405Z"))
}

// RecordRun inserts a run. A missing RunID or CreatedAt is filled in from
// the clock.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	if run.RunID == "" {
		run.RunID = NewRunID(run.RunDate, now)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (run_id, run_date, source_file, rows_loaded, created_at, model_tag)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.RunDate, run.SourceFile, run.RowsLoaded,
		run.CreatedAt.UTC().Format(time.RFC3339), run.ModelTag,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}
	return nil
}

// Runs returns every recorded run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, run_date, source_file, rows_loaded, created_at, model_tag
		FROM ingestion_runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.RunID, &r.RunDate, &r.SourceFile, &r.RowsLoaded, &createdAt, &r.ModelTag); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
