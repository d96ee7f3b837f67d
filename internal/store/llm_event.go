package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LLMEventData captures the data for a single LLM request event.
type LLMEventData struct {
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMEventData
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match ("" = all)
}

// UsageSummary aggregates token usage across a set of LLM events.
type UsageSummary struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMEvent records an LLM API call event.
	AppendLLMEvent(ctx context.Context, data LLMEventData) error

	// QueryLLMEvents returns events matching opts, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// SummarizeUsage aggregates usage per model for events matching opts.
	SummarizeUsage(ctx context.Context, opts QueryOpts) (map[string]UsageSummary, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMEvent(ctx context.Context, data LLMEventData) error {
	success := 0
	if data.Success {
		success = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events (ts, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save LLM event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	query := `SELECT id, ts, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message
		FROM llm_events WHERE 1=1`
	var args []any

	if !opts.From.IsZero() {
		query += " AND ts >= ?"
		args = append(args, opts.From.UTC().Format(time.RFC3339Nano))
	}
	if !opts.To.IsZero() {
		query += " AND ts <= ?"
		args = append(args, opts.To.UTC().Format(time.RFC3339Nano))
	}
	if opts.Purpose != "" {
		query += " AND purpose = ?"
		args = append(args, opts.Purpose)
	}
	query += " ORDER BY id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		var (
			ev      LLMEvent
			ts      string
			success int
		)
		if err := rows.Scan(&ev.ID, &ts, &ev.Model, &ev.Purpose,
			&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs,
			&success, &ev.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		ev.Success = success == 1
		ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp %q: %w", ts, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) SummarizeUsage(ctx context.Context, opts QueryOpts) (map[string]UsageSummary, error) {
	events, err := r.QueryLLMEvents(ctx, opts)
	if err != nil {
		return nil, err
	}

	byModel := make(map[string]UsageSummary)
	for _, ev := range events {
		s := byModel[ev.Model]
		s.Requests++
		if !ev.Success {
			s.Failures++
		}
		s.InputTokens += ev.InputTokens
		s.OutputTokens += ev.OutputTokens
		byModel[ev.Model] = s
	}
	return byModel, nil
}
