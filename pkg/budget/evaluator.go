package budget

import (
	"fmt"
	"math"
)

// Evaluator turns a sample set plus a budget into a pass/fail verdict.
// It is a pure function object: no locks, no I/O, safe for concurrent use.
type Evaluator struct {
	bands     SeverityBands
	overrides []EndpointOverride
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithBands overrides the default severity ratio bands.
func WithBands(b SeverityBands) Option {
	return func(e *Evaluator) { e.bands = b }
}

// WithEndpointOverrides adds per-endpoint partial budgets. Samples carrying
// a matching endpoint tag are additionally checked against these, in
// declaration order.
func WithEndpointOverrides(overrides []EndpointOverride) Option {
	return func(e *Evaluator) { e.overrides = overrides }
}

// NewEvaluator creates an evaluator with the default severity bands.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{bands: DefaultBands()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate validates the sample set, computes aggregate statistics and
// compares them against the budget. Endpoint-specific violations come
// first, in the order the overrides were declared, followed by global ones.
//
// An empty sample set passes every latency and failure check but still
// fails a positive MinRPS: zero throughput cannot meet a floor.
func (e *Evaluator) Evaluate(b PerformanceBudget, set SampleSet) (Verdict, error) {
	if set.Duration <= 0 {
		return Verdict{}, &ConfigurationError{Reason: "wall-clock duration must be positive"}
	}
	for i, s := range set.Samples {
		if s.LatencyMs < 0 {
			return Verdict{}, &ValidationError{Index: i, Reason: fmt.Sprintf("negative latency %.3f", s.LatencyMs)}
		}
		if math.IsNaN(s.LatencyMs) || math.IsInf(s.LatencyMs, 0) {
			return Verdict{}, &ValidationError{Index: i, Reason: "latency is not a finite number"}
		}
	}

	verdict := Verdict{}

	// Endpoint groups first.
	for _, ov := range e.overrides {
		group := filterByEndpoint(set.Samples, ov.Endpoint)
		if len(group) == 0 {
			continue
		}
		stats := Summarize(group, set.Duration)
		if verdict.EndpointStats == nil {
			verdict.EndpointStats = make(map[string]SummaryStats)
		}
		verdict.EndpointStats[ov.Endpoint] = stats

		if ov.Budget.MaxP99LatencyMs != nil {
			verdict.Violations = e.check(verdict.Violations, MetricP99Latency, ov.Endpoint,
				stats.P99LatencyMs, float64(*ov.Budget.MaxP99LatencyMs), AtMost)
		}
		if ov.Budget.MaxAvgLatencyMs != nil {
			verdict.Violations = e.check(verdict.Violations, MetricAvgLatency, ov.Endpoint,
				stats.AvgLatencyMs, float64(*ov.Budget.MaxAvgLatencyMs), AtMost)
		}
		if ov.Budget.MaxFailureRatePercent != nil {
			verdict.Violations = e.check(verdict.Violations, MetricFailureRate, ov.Endpoint,
				stats.FailureRatePercent, *ov.Budget.MaxFailureRatePercent, AtMost)
		}
	}

	// Global checks.
	stats := Summarize(set.Samples, set.Duration)
	verdict.Stats = stats

	if len(set.Samples) > 0 {
		verdict.Violations = e.check(verdict.Violations, MetricP99Latency, "",
			stats.P99LatencyMs, float64(b.MaxP99LatencyMs), AtMost)
		verdict.Violations = e.check(verdict.Violations, MetricP95Latency, "",
			stats.P95LatencyMs, float64(b.MaxP95LatencyMs), AtMost)
		verdict.Violations = e.check(verdict.Violations, MetricAvgLatency, "",
			stats.AvgLatencyMs, float64(b.MaxAvgLatencyMs), AtMost)
		verdict.Violations = e.check(verdict.Violations, MetricFailureRate, "",
			stats.FailureRatePercent, b.MaxFailureRatePercent, AtMost)
		if b.MaxErrorRatePercent != nil {
			verdict.Violations = e.check(verdict.Violations, MetricErrorRate, "",
				stats.FailureRatePercent, *b.MaxErrorRatePercent, AtMost)
		}
	}

	verdict.Violations = e.check(verdict.Violations, MetricRPS, "",
		stats.RPS, float64(b.MinRPS), AtLeast)

	if set.Resources != nil {
		if b.MaxCPUPercent != nil {
			verdict.Violations = e.check(verdict.Violations, MetricCPU, "",
				set.Resources.CPUPercent, float64(*b.MaxCPUPercent), AtMost)
		}
		if b.MaxMemoryMB != nil {
			verdict.Violations = e.check(verdict.Violations, MetricMemory, "",
				set.Resources.MemoryMB, float64(*b.MaxMemoryMB), AtMost)
		}
	}

	verdict.Passed = len(verdict.Violations) == 0
	return verdict, nil
}

func (e *Evaluator) check(violations []Violation, metric, endpoint string, observed, threshold float64, dir Direction) []Violation {
	severity, violated := e.bands.Classify(observed, threshold, dir)
	if !violated {
		return violations
	}
	return append(violations, Violation{
		Metric:    metric,
		Endpoint:  endpoint,
		Observed:  observed,
		Threshold: threshold,
		Severity:  severity,
	})
}

func filterByEndpoint(samples []Sample, endpoint string) []Sample {
	var group []Sample
	for _, s := range samples {
		if s.Endpoint == endpoint {
			group = append(group, s)
		}
	}
	return group
}
