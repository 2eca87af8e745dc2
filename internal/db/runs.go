package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourorg/gmbcrawl/internal/models"
)

// RunStore persists crawl runs in the crawl_runs table.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(conn *sql.DB) *RunStore {
	return &RunStore{db: conn}
}

// Start inserts a run in the running state.
func (s *RunStore) Start(ctx context.Context, run *models.CrawlRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawl_runs (id, trigger_source, status, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Trigger, run.Status, run.StartedAt)
	if err != nil {
		return fmt.Errorf("db: start run %s: %w", run.ID, err)
	}
	return nil
}

// Finish stores the final status and counters of a run.
func (s *RunStore) Finish(ctx context.Context, run *models.CrawlRun) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE crawl_runs
		SET status = ?, completed_at = ?, codes_written = ?, routes_written = ?,
			stops_written = ?, error_message = ?
		WHERE id = ?
	`, run.Status, run.CompletedAt, run.CodesWritten, run.RoutesWritten,
		run.StopsWritten, run.ErrorMessage, run.ID)
	if err != nil {
		return fmt.Errorf("db: finish run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("db: finish run %s: %w", run.ID, sql.ErrNoRows)
	}
	return nil
}

const selectRuns = `
	SELECT id, trigger_source, status, started_at, completed_at,
		codes_written, routes_written, stops_written, error_message
	FROM crawl_runs
	ORDER BY started_at DESC
	LIMIT ?
`

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]models.CrawlRun, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("db: list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]models.CrawlRun, 0, limit)
	for rows.Next() {
		var (
			run         models.CrawlRun
			completedAt sql.NullTime
			errMsg      sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Trigger, &run.Status, &run.StartedAt, &completedAt,
			&run.CodesWritten, &run.RoutesWritten, &run.StopsWritten, &errMsg); err != nil {
			return nil, fmt.Errorf("db: scan run: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			run.CompletedAt = &t
		}
		if errMsg.Valid {
			msg := errMsg.String
			run.ErrorMessage = &msg
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: list runs: %w", err)
	}
	return runs, nil
}

// Last returns the most recent run, or nil when none exists.
func (s *RunStore) Last(ctx context.Context) (*models.CrawlRun, error) {
	runs, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
