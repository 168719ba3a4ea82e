package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunCancelled = "cancelled"
)

// Run is one recorded mirror invocation.
type Run struct {
	ID         string
	SrcRoot    string
	DestRoot   string
	StartedAt  time.Time
	FinishedAt time.Time
	Generated  int
	Skipped    int
	Failed     int
	Status     string
}

// BeginRun records the start of a mirror run.
func (s *Store) BeginRun(ctx context.Context, id, srcRoot, destRoot string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, src_root, dest_root, started_at, status) VALUES (?, ?, ?, ?, ?)`,
		id, srcRoot, destRoot, formatTime(startedAt), RunRunning,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun stores the final counts of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = RunCompleted
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, generated = ?, skipped = ?, failed = ?, status = ? WHERE id = ?`,
		formatTime(run.FinishedAt), run.Generated, run.Skipped, run.Failed, run.Status, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: unknown run %s", run.ID)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, src_root, dest_root, started_at, finished_at, generated, skipped, failed, status
                FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.SrcRoot, &run.DestRoot, &started, &finished, &run.Generated, &run.Skipped, &run.Failed, &run.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		if finished.Valid {
			run.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
