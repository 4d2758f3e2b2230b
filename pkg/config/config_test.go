package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveEnvironment(t *testing.T) {
	t.Setenv(EnvVarEnvironment, "")

	if got := ResolveEnvironment("staging"); got != "staging" {
		t.Errorf("explicit name ignored: %q", got)
	}
	if got := ResolveEnvironment(""); got != EnvDevelopment {
		t.Errorf("default = %q, want development", got)
	}

	t.Setenv(EnvVarEnvironment, "production")
	if got := ResolveEnvironment(""); got != "production" {
		t.Errorf("env var ignored: %q", got)
	}
	if got := ResolveEnvironment("staging"); got != "staging" {
		t.Errorf("explicit name should beat env var: %q", got)
	}
}

func TestResolveScenarioName(t *testing.T) {
	t.Setenv(EnvVarScenario, "")
	if got := ResolveScenarioName(""); got != ScenarioNormal {
		t.Errorf("default = %q, want normal", got)
	}
	t.Setenv(EnvVarScenario, "stress")
	if got := ResolveScenarioName(""); got != "stress" {
		t.Errorf("env var ignored: %q", got)
	}
}

func TestBudgetForUnknownFallsBack(t *testing.T) {
	dev := BudgetFor(EnvDevelopment)
	unknown := BudgetFor("qa-7")

	if unknown.MaxP99LatencyMs != dev.MaxP99LatencyMs || unknown.MinRPS != dev.MinRPS {
		t.Errorf("unknown environment should resolve to development budget, got %+v", unknown)
	}
}

func TestBudgetTableTightensTowardProduction(t *testing.T) {
	dev := BudgetFor(EnvDevelopment)
	staging := BudgetFor(EnvStaging)
	prod := BudgetFor(EnvProduction)

	if !(prod.MaxP99LatencyMs < staging.MaxP99LatencyMs && staging.MaxP99LatencyMs < dev.MaxP99LatencyMs) {
		t.Error("p99 ceilings should tighten from development to production")
	}
	if !(prod.MinRPS > staging.MinRPS && staging.MinRPS >= dev.MinRPS) {
		t.Error("rps floors should rise from development to production")
	}
}

func TestScenarioForUnknownFallsBack(t *testing.T) {
	s := ScenarioFor("does-not-exist")
	if s.Name != "Normal Load" {
		t.Errorf("unknown scenario should resolve to normal, got %q", s.Name)
	}
}

func TestScenarioInvariants(t *testing.T) {
	names := []string{ScenarioSmoke, ScenarioNormal, ScenarioPeak, ScenarioStress, ScenarioCapacity, ScenarioEndurance}
	for _, name := range names {
		s := ScenarioFor(name)
		if s.Users <= 0 {
			t.Errorf("%s: users must be positive", name)
		}
		if s.SpawnRate <= 0 || s.SpawnRate > s.Users {
			t.Errorf("%s: spawn rate %d out of range for %d users", name, s.SpawnRate, s.Users)
		}
		if s.Duration <= 0 {
			t.Errorf("%s: duration must be positive", name)
		}
		if len(s.UserClasses) == 0 {
			t.Errorf("%s: needs at least one user class", name)
		}
	}
}

func TestEndpointOverridesOrder(t *testing.T) {
	overrides := EndpointOverrides()
	if len(overrides) != 4 {
		t.Fatalf("expected 4 endpoint SLOs, got %d", len(overrides))
	}
	if overrides[0].Endpoint != "/api/verify-proof" {
		t.Errorf("verify-proof should be declared first, got %s", overrides[0].Endpoint)
	}
	if overrides[3].Endpoint != "/api/health" {
		t.Errorf("health should be declared last, got %s", overrides[3].Endpoint)
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perf.yaml")
	content := `
budgets:
  staging:
    max_p99_latency_ms: 99
    max_p95_latency_ms: 80
    max_avg_latency_ms: 40
    max_failure_rate_percent: 0.2
    min_rps: 150
scenarios:
  burst:
    name: Burst
    users: 50
    spawn_rate: 25
    duration: 45s
    user_classes: [standard]
alert_bands:
  critical: 3.0
  warning: 2.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := o.BudgetFor("staging").MaxP99LatencyMs; got != 99 {
		t.Errorf("file budget not applied: p99 = %d", got)
	}
	// Names absent from the file still resolve from the static table.
	if got := o.BudgetFor(EnvProduction).MaxP99LatencyMs; got != 150 {
		t.Errorf("static fallback broken: p99 = %d", got)
	}

	s := o.ScenarioFor("burst")
	if s.Users != 50 || s.Duration != 45*time.Second {
		t.Errorf("file scenario not applied: %+v", s)
	}
	if o.ScenarioFor("smoke").Users != 10 {
		t.Error("static scenario fallback broken")
	}

	if bands := o.Bands(); bands.Critical != 3.0 || bands.Warning != 2.0 {
		t.Errorf("alert bands not applied: %+v", bands)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perf.json")
	content := `{"scenarios":{"bad":{"name":"Bad","users":10,"spawn_rate":5,"duration":"soon","user_classes":["standard"]}}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestNilOverridesFallThrough(t *testing.T) {
	var o *Overrides
	if o.BudgetFor(EnvProduction).MinRPS != 200 {
		t.Error("nil overrides should use static budgets")
	}
	if o.ScenarioFor(ScenarioSmoke).Users != 10 {
		t.Error("nil overrides should use static scenarios")
	}
	if o.Bands() != DefaultAlertBands() {
		t.Error("nil overrides should use default bands")
	}
}

func TestFailBuildOnViolation(t *testing.T) {
	t.Setenv(EnvVarFailBuild, "")
	if !FailBuildOnViolation() {
		t.Error("default should be true")
	}
	t.Setenv(EnvVarFailBuild, "false")
	if FailBuildOnViolation() {
		t.Error("explicit false ignored")
	}
	t.Setenv(EnvVarFailBuild, "TRUE")
	if !FailBuildOnViolation() {
		t.Error("case-insensitive true ignored")
	}
}
