package main

import (
	"testing"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/report"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScenarioName != "normal" {
		t.Errorf("scenario = %s", cfg.ScenarioName)
	}
	if cfg.Environment != "development" {
		t.Errorf("environment = %s", cfg.Environment)
	}
	if cfg.Target != "http://localhost:8000" {
		t.Errorf("target = %s", cfg.Target)
	}
	if cfg.Format != report.FormatText {
		t.Errorf("format = %s", cfg.Format)
	}
	if !cfg.FailOnGate {
		t.Error("expected FailOnGate default true")
	}
}

func TestLoadConfigEnvFallbacks(t *testing.T) {
	t.Setenv("TEST_SCENARIO", "stress")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TARGET_HOST", "http://staging.internal:8000")
	t.Setenv("FAIL_BUILD_ON_PERF_VIOLATION", "false")

	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScenarioName != "stress" || cfg.Environment != "production" {
		t.Errorf("env fallback wrong: %+v", cfg)
	}
	if cfg.Target != "http://staging.internal:8000" {
		t.Errorf("target = %s", cfg.Target)
	}
	if cfg.FailOnGate {
		t.Error("expected FailOnGate false")
	}
}

func TestLoadConfigFlagsWinOverEnv(t *testing.T) {
	t.Setenv("TEST_SCENARIO", "stress")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig([]string{"-scenario", "smoke", "-env", "staging", "-format", "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScenarioName != "smoke" || cfg.Environment != "staging" {
		t.Errorf("flags did not win: %+v", cfg)
	}
	if cfg.Format != report.FormatJSON {
		t.Errorf("format = %s", cfg.Format)
	}
}

func TestLoadConfigRejectsUnknownFormat(t *testing.T) {
	if _, err := LoadConfig([]string{"-format", "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
