package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
)

const (
	verdictKeyPrefix   = "perf:verdict:"
	alertChannelPrefix = "perf:alerts:"
)

// Alert is one budget violation fanned out to subscribers.
type Alert struct {
	RunID       string    `json:"run_id"`
	Scenario    string    `json:"scenario"`
	Environment string    `json:"environment"`
	Metric      string    `json:"metric"`
	Endpoint    string    `json:"endpoint,omitempty"`
	Observed    float64   `json:"observed"`
	Threshold   float64   `json:"threshold"`
	Severity    string    `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher pushes verdicts and per-violation alerts into Redis.
// Publishing is best-effort: failures are logged and never abort a run.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func verdictKey(scenario string) string {
	return verdictKeyPrefix + scenario
}

// ChannelFor returns the pub/sub channel carrying alerts of a severity.
func ChannelFor(severity budget.Severity) string {
	return alertChannelPrefix + string(severity)
}

// PublishVerdict stores the latest verdict per scenario and publishes one
// message per violation on the channel matching its severity.
func (p *Publisher) PublishVerdict(ctx context.Context, runID, scenario, environment string, verdict budget.Verdict) {
	data, err := json.Marshal(verdict)
	if err != nil {
		log.Printf("Failed to marshal verdict for %s: %v", scenario, err)
		return
	}
	if err := p.client.Set(ctx, verdictKey(scenario), data, 0).Err(); err != nil {
		log.Printf("Failed to SET verdict key %s: %v", verdictKey(scenario), err)
	}

	now := time.Now().UTC()
	for _, v := range verdict.Violations {
		a := Alert{
			RunID:       runID,
			Scenario:    scenario,
			Environment: environment,
			Metric:      v.Metric,
			Endpoint:    v.Endpoint,
			Observed:    v.Observed,
			Threshold:   v.Threshold,
			Severity:    string(v.Severity),
			Timestamp:   now,
		}
		payload, err := json.Marshal(a)
		if err != nil {
			log.Printf("Failed to marshal alert for %s: %v", scenario, err)
			continue
		}
		channel := ChannelFor(v.Severity)
		if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
			log.Printf("Failed to PUBLISH on %s: %v", channel, err)
		}
	}
}

// LastVerdict returns the most recently stored verdict for a scenario.
func (p *Publisher) LastVerdict(ctx context.Context, scenario string) (budget.Verdict, bool, error) {
	data, err := p.client.Get(ctx, verdictKey(scenario)).Result()
	if err != nil {
		if err == redis.Nil {
			return budget.Verdict{}, false, nil
		}
		return budget.Verdict{}, false, fmt.Errorf("failed to GET verdict key %s: %w", verdictKey(scenario), err)
	}
	var verdict budget.Verdict
	if err := json.Unmarshal([]byte(data), &verdict); err != nil {
		return budget.Verdict{}, false, fmt.Errorf("failed to unmarshal verdict for %s: %w", scenario, err)
	}
	return verdict, true, nil
}
