package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "perf.db")
	s, err := NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("database file was not created at %s", dbPath)
	}
	return s
}

func sampleRun(id, scenario string, startedAt time.Time, passed bool) RunRecord {
	rec := RunRecord{
		RunID:       id,
		Scenario:    scenario,
		Environment: "staging",
		Target:      "http://localhost:8000",
		StartedAt:   startedAt,
		Duration:    2 * time.Minute,
		Stats: budget.SummaryStats{
			Requests:           1000,
			Failures:           2,
			P50LatencyMs:       40,
			P95LatencyMs:       120,
			P99LatencyMs:       180,
			AvgLatencyMs:       55,
			RPS:                8.3,
			FailureRatePercent: 0.2,
		},
		Passed: passed,
	}
	if !passed {
		rec.Violations = []budget.Violation{
			{Metric: budget.MetricFailureRate, Observed: 0.2, Threshold: 0.1, Severity: budget.SeverityCritical},
			{Metric: budget.MetricP99Latency, Endpoint: "/api/verify-proof", Observed: 180, Threshold: 150, Severity: budget.SeverityInfo},
		}
	}
	return rec
}

func TestMigrateCreatesTables(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"runs", "violations"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s not found: %v", table, err)
		}
	}
}

func TestSaveAndRecallRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRun("run-1", "normal", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), false)
	if err := s.SaveRun(ctx, rec); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := s.RecentRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	got := runs[0]
	if got.RunID != "run-1" || got.Scenario != "normal" || got.Environment != "staging" {
		t.Errorf("identity fields wrong: %+v", got)
	}
	if got.Duration != 2*time.Minute {
		t.Errorf("duration = %v, want 2m", got.Duration)
	}
	if got.Stats.P99LatencyMs != 180 || got.Stats.FailureRatePercent != 0.2 {
		t.Errorf("stats wrong: %+v", got.Stats)
	}
	if got.Passed {
		t.Error("expected passed=false")
	}
	if len(got.Violations) != 2 {
		t.Fatalf("got %d violations, want 2", len(got.Violations))
	}
	// Violation order survives the round trip.
	if got.Violations[0].Metric != budget.MetricFailureRate {
		t.Errorf("first violation = %s", got.Violations[0].Metric)
	}
	if got.Violations[1].Endpoint != "/api/verify-proof" {
		t.Errorf("second violation endpoint = %q", got.Violations[1].Endpoint)
	}
	if got.Violations[0].Severity != budget.SeverityCritical {
		t.Errorf("severity = %s", got.Violations[0].Severity)
	}
}

func TestRecentRunsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, run := range []RunRecord{
		sampleRun("run-1", "smoke", base, true),
		sampleRun("run-2", "normal", base.Add(1*time.Hour), false),
		sampleRun("run-3", "normal", base.Add(2*time.Hour), true),
	} {
		if err := s.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun %d failed: %v", i, err)
		}
	}

	// Scenario filter, newest first.
	runs, err := s.RecentRuns(ctx, RunFilter{Scenario: "normal"})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-3" || runs[1].RunID != "run-2" {
		t.Errorf("scenario filter wrong: %+v", runIDs(runs))
	}

	// Failed only.
	runs, err = s.RecentRuns(ctx, RunFilter{FailedOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-2" {
		t.Errorf("failed-only filter wrong: %+v", runIDs(runs))
	}

	// Limit.
	runs, err = s.RecentRuns(ctx, RunFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-3" {
		t.Errorf("limit wrong: %+v", runIDs(runs))
	}

	// Time window.
	runs, err = s.RecentRuns(ctx, RunFilter{From: base.Add(30 * time.Minute), To: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-2" {
		t.Errorf("time window wrong: %+v", runIDs(runs))
	}
}

func TestLastRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LastRun(ctx, ""); err != ErrRunNotFound {
		t.Fatalf("empty store: err = %v, want ErrRunNotFound", err)
	}

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s.SaveRun(ctx, sampleRun("run-1", "smoke", base, true))
	s.SaveRun(ctx, sampleRun("run-2", "peak", base.Add(time.Hour), true))

	last, err := s.LastRun(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if last.RunID != "run-2" {
		t.Errorf("last run = %s, want run-2", last.RunID)
	}

	last, err = s.LastRun(ctx, "smoke")
	if err != nil {
		t.Fatal(err)
	}
	if last.RunID != "run-1" {
		t.Errorf("last smoke run = %s, want run-1", last.RunID)
	}
}

func TestScenarioTrend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		rec := sampleRun("run-"+string(rune('a'+i)), "normal", base.Add(time.Duration(i)*time.Hour), true)
		rec.Stats.P99LatencyMs = float64(100 + i*10)
		if err := s.SaveRun(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	points, err := s.ScenarioTrend(ctx, "normal", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	// The newest 3 runs, returned oldest first.
	if points[0].P99LatencyMs != 120 || points[2].P99LatencyMs != 140 {
		t.Errorf("trend order wrong: %+v", points)
	}
}

func runIDs(runs []RunRecord) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.RunID
	}
	return ids
}
