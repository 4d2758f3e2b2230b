package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/alert"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/client"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/config"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/loadgen"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/report"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/store"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	os.Exit(run(cfg))
}

func run(cfg Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var overrides *config.Overrides
	if cfg.ConfigPath != "" {
		loaded, err := config.Load(cfg.ConfigPath)
		if err != nil {
			slog.Error("failed to load overrides", "path", cfg.ConfigPath, "error", err)
			return 2
		}
		overrides = loaded
	}

	scenario := overrides.ScenarioFor(cfg.ScenarioName)
	perfBudget := overrides.BudgetFor(cfg.Environment)
	bands := overrides.Bands()

	slog.Info("performance gate starting",
		"scenario", cfg.ScenarioName,
		"environment", cfg.Environment,
		"target", cfg.Target,
		"users", scenario.Users,
		"duration", scenario.Duration.String())

	apiClient := client.NewClient(cfg.Target)
	if err := apiClient.WaitReady(ctx, cfg.WaitAttempts); err != nil {
		slog.Error("target not reachable", "target", cfg.Target, "error", err)
		return 2
	}

	startedAt := time.Now().UTC()
	runner := loadgen.NewRunner(cfg.Target, cfg.Seed)
	result := runner.Run(ctx, scenario)

	evaluator := budget.NewEvaluator(
		budget.WithBands(bands),
		budget.WithEndpointOverrides(config.EndpointOverrides()),
	)
	verdict, err := evaluator.Evaluate(perfBudget, result.SampleSet)
	if err != nil {
		slog.Error("evaluation failed", "error", err)
		return 2
	}

	run := report.Run{
		RunID:       uuid.NewString(),
		Scenario:    cfg.ScenarioName,
		Environment: cfg.Environment,
		Target:      cfg.Target,
		StartedAt:   startedAt,
		Duration:    result.Elapsed,
		Verdict:     verdict,
	}

	persistRun(ctx, cfg, run)
	publishAlerts(ctx, cfg, run)

	if err := writeReport(ctx, cfg, run); err != nil {
		slog.Error("failed to write report", "error", err)
		return 2
	}

	if !verdict.Passed {
		slog.Warn("performance budget violated",
			"violations", len(verdict.Violations),
			"fail_build", cfg.FailOnGate)
		if cfg.FailOnGate {
			return 1
		}
	}
	return 0
}

func persistRun(ctx context.Context, cfg Config, run report.Run) {
	if cfg.DBPath == "" {
		return
	}
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open run history db", "path", cfg.DBPath, "error", err)
		return
	}
	defer db.Close()

	rec := store.RunRecord{
		RunID:       run.RunID,
		Scenario:    run.Scenario,
		Environment: run.Environment,
		Target:      run.Target,
		StartedAt:   run.StartedAt,
		Duration:    run.Duration,
		Stats:       run.Verdict.Stats,
		Passed:      run.Verdict.Passed,
		Violations:  run.Verdict.Violations,
	}
	if err := db.SaveRun(ctx, rec); err != nil {
		slog.Error("failed to persist run", "run_id", run.RunID, "error", err)
		return
	}
	slog.Info("run persisted", "run_id", run.RunID, "db", cfg.DBPath)
}

func publishAlerts(ctx context.Context, cfg Config, run report.Run) {
	if cfg.RedisAddr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	publisher := alert.NewPublisher(rdb)
	publisher.PublishVerdict(ctx, run.RunID, run.Scenario, run.Environment, run.Verdict)
}

func writeReport(ctx context.Context, cfg Config, run report.Run) error {
	generator, err := report.NewGenerator(cfg.Format)
	if err != nil {
		return err
	}
	reader, err := generator.Generate(ctx, run)
	if err != nil {
		return err
	}

	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", cfg.OutputFile, err)
		}
		defer f.Close()
		if _, err := io.Copy(f, reader); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", cfg.OutputFile)
		return nil
	}

	_, err = io.Copy(os.Stdout, reader)
	return err
}
