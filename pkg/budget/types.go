package budget

import "time"

// PerformanceBudget defines the SLO thresholds a test run must satisfy.
// These are the "tests" that must pass for the build to succeed.
// Budgets are loaded once at startup and never mutated.
type PerformanceBudget struct {
	MaxP99LatencyMs       int     `json:"max_p99_latency_ms" yaml:"max_p99_latency_ms"`
	MaxP95LatencyMs       int     `json:"max_p95_latency_ms" yaml:"max_p95_latency_ms"`
	MaxAvgLatencyMs       int     `json:"max_avg_latency_ms" yaml:"max_avg_latency_ms"`
	MaxFailureRatePercent float64 `json:"max_failure_rate_percent" yaml:"max_failure_rate_percent"`
	MinRPS                int     `json:"min_rps" yaml:"min_rps"`

	// Optional limits. Nil means the check is skipped.
	MaxCPUPercent       *int     `json:"max_cpu_percent,omitempty" yaml:"max_cpu_percent,omitempty"`
	MaxMemoryMB         *int     `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty"`
	MaxErrorRatePercent *float64 `json:"max_error_rate_percent,omitempty" yaml:"max_error_rate_percent,omitempty"`
}

// EndpointBudget is a partial budget applied to a single endpoint.
// Only the non-nil thresholds are checked.
type EndpointBudget struct {
	MaxP99LatencyMs       *int     `json:"max_p99_latency_ms,omitempty" yaml:"max_p99_latency_ms,omitempty"`
	MaxAvgLatencyMs       *int     `json:"max_avg_latency_ms,omitempty" yaml:"max_avg_latency_ms,omitempty"`
	MaxFailureRatePercent *float64 `json:"max_failure_rate_percent,omitempty" yaml:"max_failure_rate_percent,omitempty"`
	Description           string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// EndpointOverride binds a partial budget to an endpoint path.
// Order matters: violations are reported in declaration order.
type EndpointOverride struct {
	Endpoint string         `json:"endpoint" yaml:"endpoint"`
	Budget   EndpointBudget `json:"budget" yaml:"budget"`
}

// Sample is the outcome of a single request.
type Sample struct {
	LatencyMs float64 `json:"latency_ms"`
	Success   bool    `json:"success"`
	Endpoint  string  `json:"endpoint,omitempty"`
}

// ResourceUsage carries optional process-level measurements taken during
// the run. Checked only against the budget limits that are set.
type ResourceUsage struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemoryMB   float64 `json:"memory_mb"`
}

// SampleSet is the immutable input to a single evaluation: the collected
// per-request outcomes plus the wall-clock duration of the run.
// Duration is supplied by the collector, not inferred from timestamps.
type SampleSet struct {
	Samples   []Sample       `json:"samples"`
	Duration  time.Duration  `json:"duration"`
	Resources *ResourceUsage `json:"resources,omitempty"`
}

// SummaryStats are the aggregate statistics computed over a sample group.
type SummaryStats struct {
	Requests           int     `json:"requests"`
	Failures           int     `json:"failures"`
	P50LatencyMs       float64 `json:"p50_latency_ms"`
	P95LatencyMs       float64 `json:"p95_latency_ms"`
	P99LatencyMs       float64 `json:"p99_latency_ms"`
	AvgLatencyMs       float64 `json:"avg_latency_ms"`
	RPS                float64 `json:"rps"`
	FailureRatePercent float64 `json:"failure_rate_percent"`
}

// Violation records one failed budget comparison.
type Violation struct {
	Metric    string   `json:"metric"`
	Endpoint  string   `json:"endpoint,omitempty"`
	Observed  float64  `json:"observed"`
	Threshold float64  `json:"threshold"`
	Severity  Severity `json:"severity"`
}

// Verdict is the result of evaluating a sample set against a budget.
// Invariant: Passed == (len(Violations) == 0).
type Verdict struct {
	Passed        bool                    `json:"passed"`
	Violations    []Violation             `json:"violations"`
	Stats         SummaryStats            `json:"summary_stats"`
	EndpointStats map[string]SummaryStats `json:"endpoint_stats,omitempty"`
}

// Metric names used in violations.
const (
	MetricP99Latency  = "p99_latency_ms"
	MetricP95Latency  = "p95_latency_ms"
	MetricAvgLatency  = "avg_latency_ms"
	MetricFailureRate = "failure_rate_percent"
	MetricErrorRate   = "error_rate_percent"
	MetricRPS         = "rps"
	MetricCPU         = "cpu_percent"
	MetricMemory      = "memory_mb"
)
