package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	s2.Close()
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	events := []LLMEventData{
		{Model: "gemini-2.0-flash-exp", Purpose: "phase1_selection", InputTokens: 1200, OutputTokens: 80, LatencyMs: 900, Success: true},
		{Model: "gemini-2.0-flash-exp", Purpose: "phase2_rating", InputTokens: 4000, OutputTokens: 600, LatencyMs: 2100, Success: true},
		{Model: "gemini-2.0-flash-exp", Purpose: "phase2_rating", Success: false, ErrorMessage: "rate limited"},
	}
	for _, ev := range events {
		if err := repo.AppendLLMEvent(ctx, ev); err != nil {
			t.Fatalf("AppendLLMEvent: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	// Newest first.
	if got[0].ErrorMessage != "rate limited" || got[0].Success {
		t.Errorf("newest event = %+v, want the failed rating call", got[0])
	}
	if got[2].Purpose != "phase1_selection" {
		t.Errorf("oldest event purpose = %q", got[2].Purpose)
	}

	rated, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "phase2_rating"})
	if err != nil {
		t.Fatalf("QueryLLMEvents(purpose): %v", err)
	}
	if len(rated) != 2 {
		t.Errorf("purpose filter: got %d events, want 2", len(rated))
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("QueryLLMEvents(limit): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit: got %d events, want 1", len(limited))
	}
}

func TestSummarizeUsage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	data := []LLMEventData{
		{Model: "gemini-2.0-flash-exp", InputTokens: 1000, OutputTokens: 100, Success: true},
		{Model: "gemini-2.0-flash-exp", InputTokens: 2000, OutputTokens: 200, Success: true},
		{Model: "gemini-2.0-flash-exp", Success: false, ErrorMessage: "timeout"},
		{Model: "gpt-4o-mini", InputTokens: 500, OutputTokens: 50, Success: true},
	}
	for _, ev := range data {
		if err := repo.AppendLLMEvent(ctx, ev); err != nil {
			t.Fatalf("AppendLLMEvent: %v", err)
		}
	}

	usage, err := repo.SummarizeUsage(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("SummarizeUsage: %v", err)
	}

	g := usage["gemini-2.0-flash-exp"]
	if g.Requests != 3 || g.Failures != 1 || g.InputTokens != 3000 || g.OutputTokens != 300 {
		t.Errorf("gemini usage = %+v", g)
	}
	o := usage["gpt-4o-mini"]
	if o.Requests != 1 || o.InputTokens != 500 {
		t.Errorf("openai usage = %+v", o)
	}
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	runs := s.RunRepo()

	id, err := runs.Create(ctx, RunKindMatch, 3, "gemini-2.0-flash-exp", 10)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	run, err := runs.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Status != RunStatusRunning || run.Grade != 3 || run.TotalUnits != 10 {
		t.Errorf("run = %+v", run)
	}
	if !run.FinishedAt.IsZero() {
		t.Errorf("FinishedAt should be zero while running, got %v", run.FinishedAt)
	}

	latest, err := runs.LatestRunning(ctx, RunKindMatch)
	if err != nil {
		t.Fatalf("LatestRunning: %v", err)
	}
	if latest == nil || latest.ID != id {
		t.Errorf("LatestRunning = %+v, want run %s", latest, id)
	}

	if err := runs.Finish(ctx, id, RunStatusCompleted, ""); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	run, err = runs.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after finish: %v", err)
	}
	if run.Status != RunStatusCompleted || run.FinishedAt.IsZero() {
		t.Errorf("finished run = %+v", run)
	}

	latest, err = runs.LatestRunning(ctx, RunKindMatch)
	if err != nil {
		t.Fatalf("LatestRunning after finish: %v", err)
	}
	if latest != nil {
		t.Errorf("no run should be running, got %+v", latest)
	}
}

func TestRunCheckpoints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	runs := s.RunRepo()

	id, err := runs.Create(ctx, RunKindMatch, 3, "gemini-2.0-flash-exp", 3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := runs.MarkCompleted(ctx, id, "3.OA.A.1.1", []byte(`{"score": 88}`)); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if err := runs.MarkCompleted(ctx, id, "3.OA.A.1.2", []byte(`{"score": 72}`)); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	// Re-checkpointing the same unit overwrites, not duplicates.
	if err := runs.MarkCompleted(ctx, id, "3.OA.A.1.1", []byte(`{"score": 90}`)); err != nil {
		t.Fatalf("MarkCompleted overwrite: %v", err)
	}

	entries, err := runs.Progress(ctx, id)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d progress entries, want 2", len(entries))
	}

	byID := make(map[string]string)
	for _, e := range entries {
		byID[e.SubstandardID] = string(e.Payload)
	}
	if byID["3.OA.A.1.1"] != `{"score": 90}` {
		t.Errorf("overwritten payload = %s", byID["3.OA.A.1.1"])
	}

	run, err := runs.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.CompletedUnits != 2 {
		t.Errorf("CompletedUnits = %d, want 2", run.CompletedUnits)
	}
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	runs := s.RunRepo()

	for i := 0; i < 3; i++ {
		if _, err := runs.Create(ctx, RunKindBruteforce, 3, "gemini-2.0-flash-exp", 5); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := runs.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d runs, want 3", len(all))
	}

	limited, err := runs.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d runs, want 2", len(limited))
	}
}
