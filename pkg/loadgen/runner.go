package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/config"
)

// Endpoint paths of the system under test.
const (
	EndpointVerify    = "/api/verify-proof"
	EndpointBiometric = "/api/verify-biometric-proof"
	EndpointBatch     = "/api/batch-verify-proofs"
	EndpointHealth    = "/api/health"
)

// Result is the outcome of one load-generation run: the raw sample set for
// budget evaluation plus running totals for progress reporting.
type Result struct {
	ScenarioName  string           `json:"scenario_name"`
	Elapsed       time.Duration    `json:"elapsed"`
	TotalRequests uint64           `json:"total_requests"`
	TotalFailures uint64           `json:"total_failures"`
	SampleSet     budget.SampleSet `json:"sample_set"`
}

// Runner drives simulated users against a target host and records one
// sample per request.
type Runner struct {
	target string
	client *http.Client
	seed   int64
}

// NewRunner creates a runner for the given base URL. A zero seed picks the
// current time, matching non-reproducible "real" runs; tests pass a fixed
// seed for determinism.
func NewRunner(target string, seed int64) *Runner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{
		target: target,
		client: &http.Client{Timeout: 30 * time.Second},
		seed:   seed,
	}
}

// Run spawns the scenario's users (ramped at SpawnRate per second), lets
// them issue requests until the scenario duration elapses, and returns the
// collected samples. The wall-clock duration in the result is measured, not
// assumed.
func (r *Runner) Run(ctx context.Context, scenario config.TestScenario) Result {
	log.Printf("Running scenario %q: %d users, spawn rate %d/s, duration %s (seed %d)",
		scenario.Name, scenario.Users, scenario.SpawnRate, scenario.Duration, r.seed)

	ctx, cancel := context.WithTimeout(ctx, scenario.Duration)
	defer cancel()

	collector := NewCollector()
	classes := scenario.UserClasses
	if len(classes) == 0 {
		classes = []string{config.UserClassStandard}
	}

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < scenario.Users; i++ {
		class := classes[i%len(classes)]
		userSeed := r.seed + int64(i)

		wg.Add(1)
		go func(class string, seed int64) {
			defer wg.Done()
			r.runUser(ctx, class, seed, collector)
		}(class, userSeed)

		// Ramp: pause after each wave of SpawnRate users.
		if scenario.SpawnRate > 0 && (i+1)%scenario.SpawnRate == 0 && i+1 < scenario.Users {
			select {
			case <-ctx.Done():
				i = scenario.Users // stop spawning, wait for the started ones
			case <-time.After(time.Second):
			}
		}
	}
	wg.Wait()

	elapsed := time.Since(start)
	return Result{
		ScenarioName:  scenario.Name,
		Elapsed:       elapsed,
		TotalRequests: collector.Requests(),
		TotalFailures: collector.Failures(),
		SampleSet:     collector.Snapshot(elapsed),
	}
}

type userProfile struct {
	thinkMin time.Duration
	thinkMax time.Duration
	batch    bool
}

func profileFor(class string) userProfile {
	switch class {
	case config.UserClassPeak:
		return userProfile{thinkMin: 200 * time.Millisecond, thinkMax: time.Second}
	case config.UserClassHighVolume:
		return userProfile{thinkMin: 100 * time.Millisecond, thinkMax: 500 * time.Millisecond, batch: true}
	default:
		return userProfile{thinkMin: 500 * time.Millisecond, thinkMax: 2500 * time.Millisecond}
	}
}

func (r *Runner) runUser(ctx context.Context, class string, seed int64, collector *Collector) {
	rng := rand.New(rand.NewSource(seed))
	gen := newPayloadGenerator(rng)
	profile := profileFor(class)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if profile.batch {
			r.doBatch(ctx, gen, collector)
		} else {
			r.doWeightedTask(ctx, gen, rng, collector)
		}

		think := profile.thinkMin + time.Duration(rng.Int63n(int64(profile.thinkMax-profile.thinkMin)))
		select {
		case <-ctx.Done():
			return
		case <-time.After(think):
		}
	}
}

// doWeightedTask mirrors the production traffic mix: 50% login proofs, 30%
// transaction proofs, 15% biometric proofs, 5% health checks.
func (r *Runner) doWeightedTask(ctx context.Context, gen *payloadGenerator, rng *rand.Rand, collector *Collector) {
	switch roll := rng.Intn(100); {
	case roll < 50:
		r.doVerify(ctx, EndpointVerify, gen.verifyRequest(ProofTypeLogin), collector)
	case roll < 80:
		r.doVerify(ctx, EndpointVerify, gen.verifyRequest(ProofTypeTransaction), collector)
	case roll < 95:
		r.doVerify(ctx, EndpointBiometric, gen.verifyRequest(ProofTypeBiometric), collector)
	default:
		r.doHealth(ctx, collector)
	}
}

func (r *Runner) doVerify(ctx context.Context, endpoint string, payload VerifyRequest, collector *Collector) {
	var resp struct {
		Verified bool `json:"verified"`
	}
	latency, ok := r.post(ctx, endpoint, payload, &resp)
	if latency < 0 {
		return // run ended mid-request
	}
	collector.Record(budget.Sample{
		LatencyMs: latency,
		Success:   ok && resp.Verified,
		Endpoint:  endpoint,
	})
}

func (r *Runner) doBatch(ctx context.Context, gen *payloadGenerator, collector *Collector) {
	size := 5 + gen.rng.Intn(16)
	var resp struct {
		TotalCount    int `json:"total_count"`
		VerifiedCount int `json:"verified_count"`
	}
	latency, ok := r.post(ctx, EndpointBatch, gen.batchRequest(size), &resp)
	if latency < 0 {
		return
	}
	collector.Record(budget.Sample{
		LatencyMs: latency,
		Success:   ok && resp.TotalCount > 0 && resp.VerifiedCount == resp.TotalCount,
		Endpoint:  EndpointBatch,
	})
}

func (r *Runner) doHealth(ctx context.Context, collector *Collector) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.target+EndpointHealth, nil)
	if err != nil {
		collector.Record(budget.Sample{Success: false, Endpoint: EndpointHealth})
		return
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	latency := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		collector.Record(budget.Sample{LatencyMs: latency, Success: false, Endpoint: EndpointHealth})
		return
	}
	defer resp.Body.Close()

	var health struct {
		Status string `json:"status"`
	}
	ok := resp.StatusCode == http.StatusOK &&
		json.NewDecoder(resp.Body).Decode(&health) == nil &&
		health.Status == "healthy"
	collector.Record(budget.Sample{LatencyMs: latency, Success: ok, Endpoint: EndpointHealth})
}

// post sends a JSON payload and decodes the response. A negative latency
// means the run deadline expired mid-request and no sample should be
// recorded; ok reports a 200 with a decodable body.
func (r *Runner) post(ctx context.Context, endpoint string, payload any, out any) (float64, bool) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.target+endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, false
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	latency := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		if ctx.Err() != nil {
			return -1, false
		}
		return latency, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return latency, false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return latency, false
	}
	return latency, true
}
