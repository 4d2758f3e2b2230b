package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to a running proof verification service.
// The TUI polls stats through it and the load runner uses it to wait
// for the target to come up before spawning users.
type Client struct {
	endpoint string
	http     *http.Client
	backoff  BackoffStrategy
}

// NewClient creates a client for the given endpoint.
// endpoint defaults to "http://localhost:8000" if empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = "http://localhost:8000"
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		backoff: DefaultBackoff(),
	}
}

// Health checks the target's health endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, "/api/health", &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}

// Stats fetches the target's live counters.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.getJSON(ctx, "/api/stats", &stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// WaitReady polls the health endpoint with backoff until the target
// answers or attempts are exhausted.
func (c *Client) WaitReady(ctx context.Context, attempts int) error {
	if attempts <= 0 {
		attempts = 5
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff.Next(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if _, lastErr = c.Health(ctx); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("target not ready after %d attempts: %w", attempts, lastErr)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	return nil
}
