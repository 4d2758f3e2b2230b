package budget

import (
	"testing"
	"time"
)

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil, 30*time.Second)
	if stats.Requests != 0 || stats.RPS != 0 || stats.FailureRatePercent != 0 {
		t.Errorf("empty set should summarize to zeros, got %+v", stats)
	}
}

func TestSummarizeBasics(t *testing.T) {
	samples := []Sample{
		{LatencyMs: 10, Success: true},
		{LatencyMs: 20, Success: true},
		{LatencyMs: 30, Success: false},
		{LatencyMs: 40, Success: true},
	}
	stats := Summarize(samples, 2*time.Second)

	if stats.Requests != 4 || stats.Failures != 1 {
		t.Fatalf("counts wrong: %+v", stats)
	}
	if stats.AvgLatencyMs != 25 {
		t.Errorf("avg = %v, want 25", stats.AvgLatencyMs)
	}
	if stats.RPS != 2 {
		t.Errorf("rps = %v, want 2", stats.RPS)
	}
	if stats.FailureRatePercent != 25 {
		t.Errorf("failure rate = %v, want 25", stats.FailureRatePercent)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	// n=4: p50 index = ceil(0.5*4)-1 = 1, p99 index = ceil(0.99*4)-1 = 3.
	sorted := []float64{10, 20, 30, 40}
	if got := percentile(sorted, 0.50); got != 20 {
		t.Errorf("p50 = %v, want 20", got)
	}
	if got := percentile(sorted, 0.99); got != 40 {
		t.Errorf("p99 = %v, want 40", got)
	}
	if got := percentile([]float64{7}, 0.99); got != 7 {
		t.Errorf("single sample p99 = %v, want 7", got)
	}
}

func TestPercentilesMonotonic(t *testing.T) {
	samples := make([]Sample, 137)
	for i := range samples {
		samples[i] = Sample{LatencyMs: float64((i * 37) % 500), Success: true}
	}
	stats := Summarize(samples, time.Second)

	if stats.P50LatencyMs > stats.P95LatencyMs || stats.P95LatencyMs > stats.P99LatencyMs {
		t.Errorf("percentiles not monotonic: p50=%v p95=%v p99=%v",
			stats.P50LatencyMs, stats.P95LatencyMs, stats.P99LatencyMs)
	}
}
