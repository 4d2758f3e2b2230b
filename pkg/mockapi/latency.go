package mockapi

import (
	"math/rand"
	"sync"
	"time"
)

// EndpointType selects the base processing time to simulate.
type EndpointType string

const (
	TypeHealth      EndpointType = "health"
	TypeLogin       EndpointType = "login"
	TypeTransaction EndpointType = "transaction"
	TypeBiometric   EndpointType = "biometric"
	TypeBatch       EndpointType = "batch"
)

// Base processing times per endpoint type.
var baseLatency = map[EndpointType]time.Duration{
	TypeHealth:      1 * time.Millisecond,
	TypeLogin:       25 * time.Millisecond,
	TypeTransaction: 45 * time.Millisecond,
	TypeBiometric:   65 * time.Millisecond,
	TypeBatch:       120 * time.Millisecond,
}

const defaultLatency = 50 * time.Millisecond

// LatencySimulator produces realistic processing delays and success-rate
// rolls. All randomness flows through one injected source so tests can seed
// it; the mutex is needed because rand.Rand is not goroutine-safe.
type LatencySimulator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	scale float64
}

// NewLatencySimulator creates a simulator. A zero seed picks the current
// time. scale multiplies every delay; 0 disables sleeping entirely, which
// keeps handler tests fast while leaving the success-rate rolls intact.
func NewLatencySimulator(seed int64, scale float64) *LatencySimulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LatencySimulator{
		rng:   rand.New(rand.NewSource(seed)),
		scale: scale,
	}
}

// Delay returns the simulated processing time for one request: the base
// latency with ±10% variance and a 5% chance of a 2x slow request, floored
// at 1ms before scaling.
func (s *LatencySimulator) Delay(t EndpointType) time.Duration {
	base, ok := baseLatency[t]
	if !ok {
		base = defaultLatency
	}

	s.mu.Lock()
	variance := float64(base) * 0.2 * (s.rng.Float64() - 0.5)
	slow := s.rng.Float64() < 0.05
	s.mu.Unlock()

	d := time.Duration(float64(base) + variance)
	if slow {
		d *= 2
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return time.Duration(float64(d) * s.scale)
}

// Roll returns true with probability p. Used for simulated verification
// success rates.
func (s *LatencySimulator) Roll(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}

// Sleep blocks for the simulated processing time and returns it.
func (s *LatencySimulator) Sleep(t EndpointType) time.Duration {
	d := s.Delay(t)
	if d > 0 {
		time.Sleep(d)
	}
	return d
}

// SleepFor scales and sleeps an explicit duration (batch processing, extra
// biometric steps).
func (s *LatencySimulator) SleepFor(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * s.scale)
	if d > 0 {
		time.Sleep(d)
	}
	return d
}
