package mockapi

import (
	"runtime"
	"sync/atomic"
	"time"
)

// serverState owns the mock server's counters. A single explicit state
// object updated with atomics, shared by reference with the handlers.
type serverState struct {
	startTime time.Time
	requests  uint64
	errors    uint64
}

func newServerState() *serverState {
	return &serverState{startTime: time.Now()}
}

func (s *serverState) recordRequest() {
	atomic.AddUint64(&s.requests, 1)
}

func (s *serverState) recordError() {
	atomic.AddUint64(&s.errors, 1)
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	RequestsProcessed uint64    `json:"requests_processed"`
	Errors            uint64    `json:"errors"`
	ErrorRatePercent  float64   `json:"error_rate_percent"`
	RequestsPerSecond float64   `json:"requests_per_second"`
	UptimeSeconds     float64   `json:"uptime_seconds"`
	MemoryMB          float64   `json:"memory_mb"`
	StartTime         time.Time `json:"start_time"`
	CurrentTime       time.Time `json:"current_time"`
}

func (s *serverState) snapshot() StatsResponse {
	now := time.Now()
	uptime := now.Sub(s.startTime).Seconds()
	requests := atomic.LoadUint64(&s.requests)
	errors := atomic.LoadUint64(&s.errors)

	resp := StatsResponse{
		RequestsProcessed: requests,
		Errors:            errors,
		UptimeSeconds:     uptime,
		StartTime:         s.startTime,
		CurrentTime:       now,
	}
	if requests > 0 {
		resp.ErrorRatePercent = 100 * float64(errors) / float64(requests)
	}
	if uptime > 0 {
		resp.RequestsPerSecond = float64(requests) / uptime
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	resp.MemoryMB = float64(mem.HeapAlloc) / (1024 * 1024)

	return resp
}
