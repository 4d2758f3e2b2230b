package loadgen

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
)

// Collector accumulates per-request samples from concurrent user loops.
// It is append-only during a run; Snapshot hands the evaluator an immutable
// copy so the core never needs locks.
type Collector struct {
	mu      sync.Mutex
	samples []budget.Sample

	requests uint64
	failures uint64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends one request outcome.
func (c *Collector) Record(s budget.Sample) {
	atomic.AddUint64(&c.requests, 1)
	if !s.Success {
		atomic.AddUint64(&c.failures, 1)
	}
	c.mu.Lock()
	c.samples = append(c.samples, s)
	c.mu.Unlock()
}

// Requests returns the running request count.
func (c *Collector) Requests() uint64 {
	return atomic.LoadUint64(&c.requests)
}

// Failures returns the running failure count.
func (c *Collector) Failures() uint64 {
	return atomic.LoadUint64(&c.failures)
}

// Snapshot copies the collected samples into a SampleSet with the given
// wall-clock duration. Safe to call while the run is still recording.
func (c *Collector) Snapshot(duration time.Duration) budget.SampleSet {
	c.mu.Lock()
	samples := make([]budget.Sample, len(c.samples))
	copy(samples, c.samples)
	c.mu.Unlock()

	return budget.SampleSet{Samples: samples, Duration: duration}
}
