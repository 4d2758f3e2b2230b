package config

import "github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"

// Environment names with a defined budget.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

func intPtr(v int) *int { return &v }

// BudgetFor returns the performance budget for an environment name.
// Unknown names deliberately degrade to the development budget instead of
// failing: a misspelled environment should gate against the most lenient
// thresholds, not abort the run.
func BudgetFor(env string) budget.PerformanceBudget {
	switch env {
	case EnvStaging:
		return budget.PerformanceBudget{
			MaxP99LatencyMs:       200,
			MaxP95LatencyMs:       150,
			MaxAvgLatencyMs:       75,
			MaxFailureRatePercent: 0.5,
			MinRPS:                100,
			MaxCPUPercent:         intPtr(70),
			MaxMemoryMB:           intPtr(1024),
		}
	case EnvProduction:
		return budget.PerformanceBudget{
			MaxP99LatencyMs:       150,
			MaxP95LatencyMs:       100,
			MaxAvgLatencyMs:       50,
			MaxFailureRatePercent: 0.1,
			MinRPS:                200,
			MaxCPUPercent:         intPtr(60),
			MaxMemoryMB:           intPtr(2048),
		}
	case EnvDevelopment:
		fallthrough
	default:
		return budget.PerformanceBudget{
			MaxP99LatencyMs:       300,
			MaxP95LatencyMs:       200,
			MaxAvgLatencyMs:       100,
			MaxFailureRatePercent: 1.0,
			MinRPS:                50,
			MaxCPUPercent:         intPtr(80),
			MaxMemoryMB:           intPtr(512),
		}
	}
}

// DefaultAlertBands returns the three-tier severity table used to classify
// budget violations. Overridable via a config file; see Load.
func DefaultAlertBands() budget.SeverityBands {
	return budget.DefaultBands()
}
