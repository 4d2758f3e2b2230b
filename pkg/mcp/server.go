package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/config"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/store"
)

// RunSource provides access to persisted run history.
type RunSource interface {
	LastRun(ctx context.Context, scenario string) (*store.RunRecord, error)
}

// Server adapts the performance harness to the Model Context Protocol,
// exposing budgets, scenarios and run history to agent tooling.
type Server struct {
	mcpServer *server.MCPServer
	runs      RunSource
	evaluator *budget.Evaluator
}

// NewServer creates a new MCP server instance. runs may be nil when no
// run history database is configured.
func NewServer(runs RunSource) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"proof-messenger-perf",
			"1.0.0",
		),
		runs: runs,
		evaluator: budget.NewEvaluator(
			budget.WithEndpointOverrides(config.EndpointOverrides()),
		),
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	// perf://budgets
	s.mcpServer.AddResource(mcp.NewResource(
		"perf://budgets",
		"Performance Budgets",
		mcp.WithResourceDescription("SLO thresholds per environment plus per-endpoint overrides"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadBudgets)

	// perf://scenarios
	s.mcpServer.AddResource(mcp.NewResource(
		"perf://scenarios",
		"Load Test Scenarios",
		mcp.WithResourceDescription("Named load profiles: users, spawn rate, duration, user classes"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadScenarios)

	// perf://last-run
	s.mcpServer.AddResource(mcp.NewResource(
		"perf://last-run",
		"Latest Run Verdict",
		mcp.WithResourceDescription("Most recent persisted load test run with its verdict"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadLastRun)
}

// --- Tools ---

func (s *Server) registerTools() {
	// evaluate_samples
	s.mcpServer.AddTool(mcp.NewTool(
		"evaluate_samples",
		mcp.WithDescription("Evaluate latency/error samples against an environment's performance budget. Returns the verdict with any violations."),
		mcp.WithString("samples", mcp.Required(), mcp.Description(`JSON array of samples: [{"latency_ms": 52.1, "success": true, "endpoint": "/api/verify-proof"}]`)),
		mcp.WithNumber("duration_seconds", mcp.Required(), mcp.Description("Wall-clock duration of the measurement window")),
		mcp.WithString("environment", mcp.Description("development, staging or production (default development)")),
	), s.handleEvaluateSamples)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"perf-aware",
		mcp.WithPromptDescription("Provides context about performance gating concepts (budgets, scenarios, verdicts)"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadBudgets(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	budgets := map[string]any{
		"environments": map[string]budget.PerformanceBudget{
			config.EnvDevelopment: config.BudgetFor(config.EnvDevelopment),
			config.EnvStaging:     config.BudgetFor(config.EnvStaging),
			config.EnvProduction:  config.BudgetFor(config.EnvProduction),
		},
		"endpoint_overrides": config.EndpointOverrides(),
	}

	return jsonResource(request.Params.URI, budgets)
}

func (s *Server) handleReadScenarios(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names := []string{
		config.ScenarioSmoke, config.ScenarioNormal, config.ScenarioPeak,
		config.ScenarioStress, config.ScenarioCapacity, config.ScenarioEndurance,
	}
	scenarios := make(map[string]config.TestScenario, len(names))
	for _, name := range names {
		scenarios[name] = config.ScenarioFor(name)
	}

	return jsonResource(request.Params.URI, scenarios)
}

func (s *Server) handleReadLastRun(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("no run history database configured")
	}

	run, err := s.runs.LastRun(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last run: %w", err)
	}

	return jsonResource(request.Params.URI, run)
}

func (s *Server) handleEvaluateSamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	samplesJSON := mcp.ParseString(request, "samples", "")
	durationSeconds := mcp.ParseFloat64(request, "duration_seconds", 0)
	environment := config.ResolveEnvironment(mcp.ParseString(request, "environment", config.EnvDevelopment))

	var samples []budget.Sample
	if err := json.Unmarshal([]byte(samplesJSON), &samples); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("samples is not a JSON array: %v", err)), nil
	}

	set := budget.SampleSet{
		Samples:  samples,
		Duration: secondsToDuration(durationSeconds),
	}

	verdict, err := s.evaluator.Evaluate(config.BudgetFor(environment), set)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	data, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal verdict: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "perf-aware" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are interacting with a performance gating harness for a proof verification service.

Concepts:
- Budget: SLO thresholds (p99/p95/avg latency, failure rate, RPS floor) per environment. Production is strictest.
- Scenario: A named load profile (smoke, normal, peak, stress, capacity, endurance) defining users, spawn rate and duration.
- Verdict: The result of checking measured samples against a budget. Any violation fails the gate.
- Severity: How far past the threshold a violation landed. 2x or worse is critical, 1.5x is warning, anything above the threshold is info.

Read perf://budgets and perf://scenarios to see the configured gates.
Use the 'evaluate_samples' tool to check measured latencies against a budget before merging performance-sensitive changes.
`

	return mcp.NewGetPromptResult(
		"perf-aware",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
