package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
)

// TextReport renders a human-readable run summary for terminals and CI logs.
type TextReport struct{}

// Generate creates a plain-text report for the run verdict.
func (g *TextReport) Generate(ctx context.Context, run Run) (io.Reader, error) {
	buf := &bytes.Buffer{}
	stats := run.Verdict.Stats

	fmt.Fprintf(buf, "Performance report: %s @ %s\n", run.Scenario, run.Environment)
	if run.RunID != "" {
		fmt.Fprintf(buf, "Run:        %s\n", run.RunID)
	}
	if run.Target != "" {
		fmt.Fprintf(buf, "Target:     %s\n", run.Target)
	}
	if !run.StartedAt.IsZero() {
		fmt.Fprintf(buf, "Started:    %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(buf, "Duration:   %s\n", run.Duration)
	fmt.Fprintf(buf, "Requests:   %d (%d failed, %.2f%%)\n",
		stats.Requests, stats.Failures, stats.FailureRatePercent)
	fmt.Fprintf(buf, "Latency ms: p50 %.1f / p95 %.1f / p99 %.1f / avg %.1f\n",
		stats.P50LatencyMs, stats.P95LatencyMs, stats.P99LatencyMs, stats.AvgLatencyMs)
	fmt.Fprintf(buf, "Throughput: %.1f req/s\n", stats.RPS)

	if len(run.Verdict.EndpointStats) > 0 {
		fmt.Fprintln(buf, "\nPer-endpoint:")
		endpoints := make([]string, 0, len(run.Verdict.EndpointStats))
		for ep := range run.Verdict.EndpointStats {
			endpoints = append(endpoints, ep)
		}
		sort.Strings(endpoints)
		for _, ep := range endpoints {
			es := run.Verdict.EndpointStats[ep]
			fmt.Fprintf(buf, "  %-32s %6d reqs  p99 %.1f ms  avg %.1f ms  fail %.2f%%\n",
				ep, es.Requests, es.P99LatencyMs, es.AvgLatencyMs, es.FailureRatePercent)
		}
	}

	if run.Verdict.Passed {
		fmt.Fprintln(buf, "\nResult: PASS")
		return buf, nil
	}

	fmt.Fprintf(buf, "\nResult: FAIL (%d violations)\n", len(run.Verdict.Violations))
	for _, v := range run.Verdict.Violations {
		fmt.Fprintf(buf, "  [%s] %s\n", v.Severity, describeViolation(v))
	}

	return buf, nil
}

func describeViolation(v budget.Violation) string {
	name := v.Metric
	if v.Endpoint != "" {
		name = fmt.Sprintf("%s (%s)", v.Metric, v.Endpoint)
	}
	if v.Metric == budget.MetricRPS {
		return fmt.Sprintf("%s: observed %.2f below floor %.2f", name, v.Observed, v.Threshold)
	}
	return fmt.Sprintf("%s: observed %.2f exceeds budget %.2f", name, v.Observed, v.Threshold)
}
