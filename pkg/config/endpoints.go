package config

import "github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"

func floatPtr(v float64) *float64 { return &v }

// EndpointOverrides returns the per-endpoint SLOs in declaration order.
// The order fixes the order of endpoint violations in the verdict.
func EndpointOverrides() []budget.EndpointOverride {
	return []budget.EndpointOverride{
		{
			Endpoint: "/api/verify-proof",
			Budget: budget.EndpointBudget{
				MaxP99LatencyMs:       intPtr(150),
				MaxAvgLatencyMs:       intPtr(50),
				MaxFailureRatePercent: floatPtr(0.1),
				Description:           "Core proof verification endpoint",
			},
		},
		{
			Endpoint: "/api/verify-biometric-proof",
			Budget: budget.EndpointBudget{
				MaxP99LatencyMs:       intPtr(200),
				MaxAvgLatencyMs:       intPtr(75),
				MaxFailureRatePercent: floatPtr(0.05),
				Description:           "Biometric proof verification (higher security, slightly higher latency allowed)",
			},
		},
		{
			Endpoint: "/api/batch-verify-proofs",
			Budget: budget.EndpointBudget{
				MaxP99LatencyMs:       intPtr(500),
				MaxAvgLatencyMs:       intPtr(200),
				MaxFailureRatePercent: floatPtr(0.1),
				Description:           "Batch processing endpoint (higher latency acceptable for batch operations)",
			},
		},
		{
			Endpoint: "/api/health",
			Budget: budget.EndpointBudget{
				MaxP99LatencyMs:       intPtr(50),
				MaxAvgLatencyMs:       intPtr(10),
				MaxFailureRatePercent: floatPtr(0.01),
				Description:           "Health check endpoint (must be very fast and reliable)",
			},
		},
	}
}
