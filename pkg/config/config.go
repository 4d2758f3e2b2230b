// Package config holds the static performance-test configuration: SLO
// budgets per environment, named load scenarios, endpoint-specific budget
// overrides and the alert severity bands. Environment variables are read
// only to resolve names; the budget values themselves are code.
package config

import (
	"os"
	"strings"
)

// Environment variables consumed when resolving defaults.
const (
	EnvVarEnvironment = "ENVIRONMENT"
	EnvVarScenario    = "TEST_SCENARIO"
	EnvVarTargetHost  = "TARGET_HOST"
	EnvVarFailBuild   = "FAIL_BUILD_ON_PERF_VIOLATION"
	defaultTargetHost = "http://localhost:8000"
)

// ResolveEnvironment returns the environment name to evaluate against:
// the explicit name if given, otherwise $ENVIRONMENT, otherwise
// "development".
func ResolveEnvironment(name string) string {
	if name != "" {
		return name
	}
	if env := os.Getenv(EnvVarEnvironment); env != "" {
		return env
	}
	return EnvDevelopment
}

// ResolveScenarioName returns the scenario name to run: the explicit name
// if given, otherwise $TEST_SCENARIO, otherwise "normal".
func ResolveScenarioName(name string) string {
	if name != "" {
		return name
	}
	if s := os.Getenv(EnvVarScenario); s != "" {
		return s
	}
	return ScenarioNormal
}

// TargetHost returns the base URL of the system under test.
func TargetHost() string {
	if host := os.Getenv(EnvVarTargetHost); host != "" {
		return host
	}
	return defaultTargetHost
}

// FailBuildOnViolation reports whether a failing verdict should map to a
// non-zero exit status. Defaults to true so CI gates on regressions.
func FailBuildOnViolation() bool {
	v := os.Getenv(EnvVarFailBuild)
	if v == "" {
		return true
	}
	return strings.EqualFold(v, "true")
}
