package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run kinds.
const (
	RunKindMatch      = "match"
	RunKindBruteforce = "bruteforce"
	RunKindQuestions  = "questions"
)

// Run is a persisted record of a matching or generation run. Progress rows
// hang off the run and let an interrupted run resume where it stopped.
type Run struct {
	ID             string
	Kind           string
	Status         string
	Grade          int
	Model          string
	StartedAt      time.Time
	FinishedAt     time.Time // zero while the run is in progress
	TotalUnits     int
	CompletedUnits int
	ErrorMessage   string
}

// ProgressEntry is one completed work unit of a run, with its result payload
// serialized as JSON.
type ProgressEntry struct {
	SubstandardID string
	Payload       []byte
	CompletedAt   time.Time
}

// RunRepo manages run records and per-unit progress checkpoints.
type RunRepo interface {
	// Create inserts a new run in the running state and returns its ID.
	Create(ctx context.Context, kind string, grade int, model string, totalUnits int) (string, error)

	// Finish marks a run completed or failed.
	Finish(ctx context.Context, runID, status, errMsg string) error

	// Get returns a run by ID.
	Get(ctx context.Context, runID string) (*Run, error)

	// List returns runs newest first, at most limit (0 = unlimited).
	List(ctx context.Context, limit int) ([]Run, error)

	// LatestRunning returns the most recent run of the given kind still in
	// the running state, or nil if none exists.
	LatestRunning(ctx context.Context, kind string) (*Run, error)

	// MarkCompleted checkpoints a finished work unit with its payload.
	MarkCompleted(ctx context.Context, runID, substandardID string, payload []byte) error

	// Progress returns all completed units of a run.
	Progress(ctx context.Context, runID string) ([]ProgressEntry, error)
}

type runRepo struct {
	db *sql.DB
}

func (r *runRepo) Create(ctx context.Context, kind string, grade int, model string, totalUnits int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, status, grade, model, started_at, total_units)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, kind, RunStatusRunning, grade, model,
		time.Now().UTC().Format(time.RFC3339Nano), totalUnits,
	)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

func (r *runRepo) Finish(ctx context.Context, runID, status, errMsg string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error_message = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), errMsg, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("finish run: no run with ID %s", runID)
	}
	return nil
}

func (r *runRepo) Get(ctx context.Context, runID string) (*Run, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, status, grade, model, started_at, finished_at,
		        total_units, completed_units, error_message
		 FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no run with ID %s", runID)
	}
	return run, err
}

func (r *runRepo) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, kind, status, grade, model, started_at, finished_at,
	                 total_units, completed_units, error_message
	          FROM runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (r *runRepo) LatestRunning(ctx context.Context, kind string) (*Run, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, status, grade, model, started_at, finished_at,
		        total_units, completed_units, error_message
		 FROM runs WHERE kind = ? AND status = ?
		 ORDER BY started_at DESC LIMIT 1`, kind, RunStatusRunning)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

func (r *runRepo) MarkCompleted(ctx context.Context, runID, substandardID string, payload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkpoint: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO run_progress (run_id, substandard_id, payload, completed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (run_id, substandard_id) DO UPDATE SET
		   payload = excluded.payload, completed_at = excluded.completed_at`,
		runID, substandardID, string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("checkpoint %s: %w", substandardID, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE runs SET completed_units =
		   (SELECT COUNT(*) FROM run_progress WHERE run_id = ?)
		 WHERE id = ?`, runID, runID)
	if err != nil {
		return fmt.Errorf("update run progress count: %w", err)
	}

	return tx.Commit()
}

func (r *runRepo) Progress(ctx context.Context, runID string) ([]ProgressEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT substandard_id, payload, completed_at
		 FROM run_progress WHERE run_id = ? ORDER BY completed_at`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run progress: %w", err)
	}
	defer rows.Close()

	var entries []ProgressEntry
	for rows.Next() {
		var (
			e       ProgressEntry
			payload string
			ts      string
		)
		if err := rows.Scan(&e.SubstandardID, &payload, &ts); err != nil {
			return nil, fmt.Errorf("scan progress entry: %w", err)
		}
		e.Payload = []byte(payload)
		e.CompletedAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse progress timestamp %q: %w", ts, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run      Run
		started  string
		finished string
	)
	err := s.Scan(&run.ID, &run.Kind, &run.Status, &run.Grade, &run.Model,
		&started, &finished, &run.TotalUnits, &run.CompletedUnits, &run.ErrorMessage)
	if err != nil {
		return nil, err
	}
	run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return nil, fmt.Errorf("parse started_at %q: %w", started, err)
	}
	if finished != "" {
		run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finished, err)
		}
	}
	return &run, nil
}
