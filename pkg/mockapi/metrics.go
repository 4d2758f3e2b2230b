package mockapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// MockRequestsTotal counts requests served by the mock verification API
	MockRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perf_mock_requests_total",
			Help: "Total number of requests served by the mock server",
		},
		[]string{"endpoint", "status"},
	)

	// MockRequestDuration observes the simulated processing time per endpoint
	MockRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perf_mock_request_duration_seconds",
			Help:    "Simulated processing time per endpoint",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"endpoint"},
	)

	// MockSimulatedErrors counts injected verification failures
	MockSimulatedErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "perf_mock_simulated_errors_total",
			Help: "Total number of simulated verification failures",
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(MockRequestsTotal)
	prometheus.MustRegister(MockRequestDuration)
	prometheus.MustRegister(MockSimulatedErrors)
}
