package budget

import (
	"math"
	"sort"
	"time"
)

// Summarize computes the aggregate statistics for a group of samples over
// the given wall-clock duration. Duration must be validated by the caller.
func Summarize(samples []Sample, duration time.Duration) SummaryStats {
	stats := SummaryStats{Requests: len(samples)}

	if duration > 0 {
		stats.RPS = float64(len(samples)) / duration.Seconds()
	}

	if len(samples) == 0 {
		return stats
	}

	latencies := make([]float64, 0, len(samples))
	var sum float64
	for _, s := range samples {
		latencies = append(latencies, s.LatencyMs)
		sum += s.LatencyMs
		if !s.Success {
			stats.Failures++
		}
	}
	sort.Float64s(latencies)

	stats.AvgLatencyMs = sum / float64(len(latencies))
	stats.P50LatencyMs = percentile(latencies, 0.50)
	stats.P95LatencyMs = percentile(latencies, 0.95)
	stats.P99LatencyMs = percentile(latencies, 0.99)
	stats.FailureRatePercent = 100 * float64(stats.Failures) / float64(stats.Requests)

	return stats
}

// percentile returns the nearest-rank percentile of an ascending-sorted
// slice: index = ceil(p*n) - 1, clamped to the valid range.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
