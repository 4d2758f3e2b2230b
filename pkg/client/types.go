package client

import "time"

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Service           string  `json:"service"`
	RequestsProcessed uint64  `json:"requests_processed"`
	ProcessingTimeMs  float64 `json:"processing_time_ms"`
}

// Stats is the body of GET /api/stats.
type Stats struct {
	RequestsProcessed uint64    `json:"requests_processed"`
	Errors            uint64    `json:"errors"`
	ErrorRatePercent  float64   `json:"error_rate_percent"`
	RequestsPerSecond float64   `json:"requests_per_second"`
	UptimeSeconds     float64   `json:"uptime_seconds"`
	MemoryMB          float64   `json:"memory_mb"`
	StartTime         time.Time `json:"start_time"`
	CurrentTime       time.Time `json:"current_time"`
}
