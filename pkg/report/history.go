package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/store"
)

// RunStore defines the data access required by history reports.
type RunStore interface {
	RecentRuns(ctx context.Context, filter store.RunFilter) ([]store.RunRecord, error)
}

// HistoryReport generates CSV reports over persisted run history.
type HistoryReport struct {
	store RunStore
}

// NewHistoryReport creates a new HistoryReport generator.
func NewHistoryReport(s RunStore) *HistoryReport {
	return &HistoryReport{store: s}
}

// HistoryParams filter which runs the report covers.
type HistoryParams struct {
	Scenario    string
	Environment string
	From        time.Time
	To          time.Time
	FailedOnly  bool
	Limit       int
}

// Generate creates a CSV report of past runs, newest first.
func (r *HistoryReport) Generate(ctx context.Context, params HistoryParams) (io.Reader, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	headers := []string{
		"started_at", "run_id", "scenario", "environment",
		"requests", "failures", "failure_rate_percent",
		"p95_latency_ms", "p99_latency_ms", "avg_latency_ms", "rps",
		"passed", "violations",
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	runs, err := r.store.RecentRuns(ctx, store.RunFilter{
		Scenario:    params.Scenario,
		Environment: params.Environment,
		From:        params.From,
		To:          params.To,
		FailedOnly:  params.FailedOnly,
		Limit:       params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	for _, run := range runs {
		row := []string{
			run.StartedAt.Format(time.RFC3339),
			run.RunID,
			run.Scenario,
			run.Environment,
			strconv.Itoa(run.Stats.Requests),
			strconv.Itoa(run.Stats.Failures),
			strconv.FormatFloat(run.Stats.FailureRatePercent, 'f', 3, 64),
			strconv.FormatFloat(run.Stats.P95LatencyMs, 'f', 1, 64),
			strconv.FormatFloat(run.Stats.P99LatencyMs, 'f', 1, 64),
			strconv.FormatFloat(run.Stats.AvgLatencyMs, 'f', 1, 64),
			strconv.FormatFloat(run.Stats.RPS, 'f', 2, 64),
			strconv.FormatBool(run.Passed),
			strconv.Itoa(len(run.Violations)),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush writer: %w", err)
	}

	return buf, nil
}
