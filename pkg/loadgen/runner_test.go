package loadgen

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/config"
)

func testScenario(classes ...string) config.TestScenario {
	return config.TestScenario{
		Name:        "test",
		Users:       4,
		SpawnRate:   4,
		Duration:    400 * time.Millisecond,
		UserClasses: classes,
	}
}

func newMockTarget(t *testing.T, verified bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case EndpointHealth:
			json.NewEncoder(w).Encode(map[string]any{"status": "healthy"})
		case EndpointBatch:
			var req BatchVerifyRequest
			json.NewDecoder(r.Body).Decode(&req)
			n := len(req.Proofs)
			verifiedCount := n
			if !verified {
				verifiedCount = 0
			}
			json.NewEncoder(w).Encode(map[string]any{"total_count": n, "verified_count": verifiedCount})
		default:
			json.NewEncoder(w).Encode(map[string]any{"verified": verified})
		}
	}))
}

func TestRunnerRecordsSamples(t *testing.T) {
	server := newMockTarget(t, true)
	defer server.Close()

	runner := NewRunner(server.URL, 42)
	result := runner.Run(context.Background(), testScenario(config.UserClassStandard))

	if result.TotalRequests == 0 {
		t.Fatal("no requests recorded")
	}
	if result.TotalFailures != 0 {
		t.Errorf("unexpected failures against healthy target: %d", result.TotalFailures)
	}
	if uint64(len(result.SampleSet.Samples)) != result.TotalRequests {
		t.Errorf("sample count %d != request count %d", len(result.SampleSet.Samples), result.TotalRequests)
	}
	if result.SampleSet.Duration <= 0 {
		t.Error("measured duration must be positive")
	}

	known := map[string]bool{EndpointVerify: true, EndpointBiometric: true, EndpointBatch: true, EndpointHealth: true}
	for _, s := range result.SampleSet.Samples {
		if !known[s.Endpoint] {
			t.Errorf("sample tagged with unknown endpoint %q", s.Endpoint)
		}
		if s.LatencyMs < 0 {
			t.Errorf("negative latency recorded: %v", s.LatencyMs)
		}
	}
}

func TestRunnerCountsFailures(t *testing.T) {
	server := newMockTarget(t, false)
	defer server.Close()

	runner := NewRunner(server.URL, 7)
	result := runner.Run(context.Background(), testScenario(config.UserClassStandard))

	if result.TotalRequests == 0 {
		t.Fatal("no requests recorded")
	}
	// Verification endpoints return verified=false; only health checks pass.
	if result.TotalFailures == 0 {
		t.Error("expected failures when target rejects proofs")
	}
}

func TestRunnerHighVolumeUsesBatchEndpoint(t *testing.T) {
	server := newMockTarget(t, true)
	defer server.Close()

	runner := NewRunner(server.URL, 11)
	result := runner.Run(context.Background(), testScenario(config.UserClassHighVolume))

	for _, s := range result.SampleSet.Samples {
		if s.Endpoint != EndpointBatch {
			t.Fatalf("high-volume user hit %q, want only %q", s.Endpoint, EndpointBatch)
		}
	}
	if len(result.SampleSet.Samples) == 0 {
		t.Error("no batch samples recorded")
	}
}

func TestRunnerUnreachableTarget(t *testing.T) {
	runner := NewRunner("http://127.0.0.1:1", 3)
	scenario := testScenario(config.UserClassStandard)
	scenario.Users = 2
	scenario.SpawnRate = 2
	result := runner.Run(context.Background(), scenario)

	if result.TotalRequests == 0 {
		t.Fatal("connection errors should still be recorded as samples")
	}
	if result.TotalFailures != result.TotalRequests {
		t.Errorf("all requests should fail: %d/%d", result.TotalFailures, result.TotalRequests)
	}
}

func TestCollectorConcurrentRecord(t *testing.T) {
	collector := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				collector.Record(budget.Sample{LatencyMs: 1, Success: j%2 == 0})
			}
		}()
	}
	wg.Wait()

	if collector.Requests() != 800 {
		t.Errorf("requests = %d, want 800", collector.Requests())
	}
	if collector.Failures() != 400 {
		t.Errorf("failures = %d, want 400", collector.Failures())
	}
	set := collector.Snapshot(time.Second)
	if len(set.Samples) != 800 {
		t.Errorf("snapshot has %d samples, want 800", len(set.Samples))
	}
}

func TestPayloadGeneratorShapes(t *testing.T) {
	gen := newPayloadGenerator(rand.New(rand.NewSource(1)))

	for _, proofType := range []string{ProofTypeLogin, ProofTypeTransaction, ProofTypeBiometric} {
		req := gen.verifyRequest(proofType)
		if len(req.ProofBundle.Signature) != 64 {
			t.Errorf("%s: signature should be sha256 hex, got %d chars", proofType, len(req.ProofBundle.Signature))
		}
		var context map[string]any
		if err := json.Unmarshal([]byte(req.ProofBundle.Context), &context); err != nil {
			t.Fatalf("%s: context is not valid JSON: %v", proofType, err)
		}
		if context["action"] != proofType {
			t.Errorf("action = %v, want %s", context["action"], proofType)
		}
	}

	batch := gen.batchRequest(7)
	if len(batch.Proofs) != 7 {
		t.Errorf("batch size = %d, want 7", len(batch.Proofs))
	}
}
