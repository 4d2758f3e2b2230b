package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
)

// ErrRunNotFound is returned when a run lookup matches nothing.
var ErrRunNotFound = errors.New("run not found")

// Store persists run history in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the SQLite database connection.
// It enables WAL mode for concurrency and durability.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	// Enable WAL mode (Write-Ahead Logging)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	// Aggregate statistics live as columns for trend queries; violations
	// get their own table so a run can carry any number of them.
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		environment TEXT NOT NULL,
		target TEXT,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		requests INTEGER NOT NULL,
		failures INTEGER NOT NULL,
		p50_latency_ms REAL NOT NULL,
		p95_latency_ms REAL NOT NULL,
		p99_latency_ms REAL NOT NULL,
		avg_latency_ms REAL NOT NULL,
		rps REAL NOT NULL,
		failure_rate_percent REAL NOT NULL,
		passed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scenario_started ON runs(scenario, started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS violations (
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		metric TEXT NOT NULL,
		endpoint TEXT NOT NULL DEFAULT '',
		observed REAL NOT NULL,
		threshold REAL NOT NULL,
		severity TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_violations_run ON violations(run_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create run tables: %w", err)
	}

	return nil
}

// SaveRun persists a run and its violations in a single transaction.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, scenario, environment, target, started_at, duration_ms,
			requests, failures, p50_latency_ms, p95_latency_ms, p99_latency_ms,
			avg_latency_ms, rps, failure_rate_percent, passed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.Scenario, rec.Environment, rec.Target,
		rec.StartedAt.UTC(), rec.Duration.Milliseconds(),
		rec.Stats.Requests, rec.Stats.Failures,
		rec.Stats.P50LatencyMs, rec.Stats.P95LatencyMs, rec.Stats.P99LatencyMs,
		rec.Stats.AvgLatencyMs, rec.Stats.RPS, rec.Stats.FailureRatePercent,
		rec.Passed)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, v := range rec.Violations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO violations (run_id, ord, metric, endpoint, observed, threshold, severity)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, rec.RunID, i, v.Metric, v.Endpoint, v.Observed, v.Threshold, string(v.Severity))
		if err != nil {
			return fmt.Errorf("failed to insert violation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// RecentRuns returns runs matching the filter, newest first.
func (s *Store) RecentRuns(ctx context.Context, filter RunFilter) ([]RunRecord, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.Scenario != "" {
		conds = append(conds, "scenario = ?")
		args = append(args, filter.Scenario)
	}
	if filter.Environment != "" {
		conds = append(conds, "environment = ?")
		args = append(args, filter.Environment)
	}
	if !filter.From.IsZero() {
		conds = append(conds, "started_at >= ?")
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		conds = append(conds, "started_at <= ?")
		args = append(args, filter.To.UTC())
	}
	if filter.FailedOnly {
		conds = append(conds, "passed = 0")
	}

	query := `
		SELECT run_id, scenario, environment, target, started_at, duration_ms,
			requests, failures, p50_latency_ms, p95_latency_ms, p99_latency_ms,
			avg_latency_ms, rps, failure_rate_percent, passed
		FROM runs
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for i := range runs {
		violations, err := s.runViolations(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Violations = violations
	}

	return runs, nil
}

// LastRun returns the most recent run, optionally restricted to a scenario.
func (s *Store) LastRun(ctx context.Context, scenario string) (*RunRecord, error) {
	runs, err := s.RecentRuns(ctx, RunFilter{Scenario: scenario, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[0], nil
}

// ScenarioTrend returns the latency trajectory of a scenario, oldest first.
func (s *Store) ScenarioTrend(ctx context.Context, scenario string, limit int) ([]TrendPoint, error) {
	query := `
		SELECT started_at, p99_latency_ms, p95_latency_ms, passed
		FROM (
			SELECT started_at, p99_latency_ms, p95_latency_ms, passed
			FROM runs WHERE scenario = ?
			ORDER BY started_at DESC LIMIT ?
		) ORDER BY started_at ASC
	`
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, query, scenario, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var (
			p      TrendPoint
			passed int
		)
		if err := rows.Scan(&p.StartedAt, &p.P99LatencyMs, &p.P95LatencyMs, &passed); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		p.Passed = passed != 0
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trend: %w", err)
	}

	return points, nil
}

func (s *Store) runViolations(ctx context.Context, runID string) ([]budget.Violation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metric, endpoint, observed, threshold, severity
		FROM violations WHERE run_id = ? ORDER BY ord ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations: %w", err)
	}
	defer rows.Close()

	var violations []budget.Violation
	for rows.Next() {
		var (
			v        budget.Violation
			severity string
		)
		if err := rows.Scan(&v.Metric, &v.Endpoint, &v.Observed, &v.Threshold, &severity); err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		v.Severity = budget.Severity(severity)
		violations = append(violations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate violations: %w", err)
	}

	return violations, nil
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	var (
		rec        RunRecord
		durationMs int64
		passed     int
	)
	err := rows.Scan(
		&rec.RunID, &rec.Scenario, &rec.Environment, &rec.Target,
		&rec.StartedAt, &durationMs,
		&rec.Stats.Requests, &rec.Stats.Failures,
		&rec.Stats.P50LatencyMs, &rec.Stats.P95LatencyMs, &rec.Stats.P99LatencyMs,
		&rec.Stats.AvgLatencyMs, &rec.Stats.RPS, &rec.Stats.FailureRatePercent,
		&passed,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to scan run: %w", err)
	}
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	rec.Passed = passed != 0
	return rec, nil
}
