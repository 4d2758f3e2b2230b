package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(HealthStatus{
			Status:            "healthy",
			Service:           "proof-messenger-mock",
			RequestsProcessed: 42,
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if status.Status != "healthy" || status.RequestsProcessed != 42 {
		t.Errorf("status wrong: %+v", status)
	}
}

func TestStats(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Stats{
			RequestsProcessed: 1000,
			Errors:            3,
			ErrorRatePercent:  0.3,
			RequestsPerSecond: 12.5,
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.RequestsProcessed != 1000 || stats.ErrorRatePercent != 0.3 {
		t.Errorf("stats wrong: %+v", stats)
	}
}

func TestStatsUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	if _, err := c.Stats(context.Background()); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestWaitReadyEventuallySucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Fail the first two health checks.
		if atomic.AddInt32(&calls, 1) <= 2 {
			http.Error(w, "starting up", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(HealthStatus{Status: "healthy"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.backoff = &ExponentialBackoff{Base: time.Millisecond, Max: 5 * time.Millisecond, Factor: 2.0}

	if err := c.WaitReady(context.Background(), 5); err != nil {
		t.Fatalf("WaitReady failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("health calls = %d, want 3", got)
	}
}

func TestWaitReadyExhaustsAttempts(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	c.backoff = &ExponentialBackoff{Base: time.Millisecond, Max: time.Millisecond, Factor: 1.0}

	if err := c.WaitReady(context.Background(), 3); err == nil {
		t.Fatal("expected error when target never answers")
	}
}

func TestDefaultEndpoint(t *testing.T) {
	c := NewClient("")
	if c.endpoint != "http://localhost:8000" {
		t.Errorf("endpoint = %s", c.endpoint)
	}
}
