package store

import (
	"time"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
)

// RunRecord is one persisted load-test run: identity, aggregate
// statistics, and the violations its verdict carried.
type RunRecord struct {
	RunID       string              `json:"run_id"`
	Scenario    string              `json:"scenario"`
	Environment string              `json:"environment"`
	Target      string              `json:"target"`
	StartedAt   time.Time           `json:"started_at"`
	Duration    time.Duration       `json:"duration"`
	Stats       budget.SummaryStats `json:"stats"`
	Passed      bool                `json:"passed"`
	Violations  []budget.Violation  `json:"violations,omitempty"`
}

// RunFilter defines filters for querying run history.
type RunFilter struct {
	Scenario    string
	Environment string
	From        time.Time
	To          time.Time
	FailedOnly  bool
	Limit       int
}

// TrendPoint is one run's latency position on a scenario's timeline.
type TrendPoint struct {
	StartedAt    time.Time `json:"started_at"`
	P99LatencyMs float64   `json:"p99_latency_ms"`
	P95LatencyMs float64   `json:"p95_latency_ms"`
	Passed       bool      `json:"passed"`
}
