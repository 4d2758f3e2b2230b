package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/config"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/report"
)

type Config struct {
	ScenarioName string
	Environment  string
	Target       string
	ConfigPath   string
	Format       report.Format
	OutputFile   string
	DBPath       string
	RedisAddr    string
	Seed         int64
	WaitAttempts int
	FailOnGate   bool
}

func LoadConfig(args []string) (Config, error) {
	flagSet := flag.NewFlagSet("perf-run", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagScenario := flagSet.String("scenario", "", "scenario name (smoke|normal|peak|stress|capacity|endurance); defaults to $TEST_SCENARIO")
	flagEnv := flagSet.String("env", "", "environment budget to gate against (development|staging|production); defaults to $ENVIRONMENT")
	flagTarget := flagSet.String("target", "", "base URL of the system under test; defaults to $TARGET_HOST")
	flagConfig := flagSet.String("config", "", "path to YAML/JSON overrides for budgets and scenarios")
	flagFormat := flagSet.String("format", "text", "report format: text|json|csv")
	flagOut := flagSet.String("out", "", "write the report to a file instead of stdout")
	flagDB := flagSet.String("db", "", "SQLite path for run history (empty = no persistence)")
	flagRedis := flagSet.String("redis", "", "Redis address for alert publishing (empty = no alerts)")
	flagSeed := flagSet.Int64("seed", 0, "load generation seed (0 = time-based)")
	flagWait := flagSet.Int("wait-attempts", 5, "health check attempts before starting load")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
			return Config{}, err
		}
		return Config{}, err
	}

	format := report.Format(strings.ToLower(strings.TrimSpace(*flagFormat)))
	switch format {
	case report.FormatText, report.FormatJSON, report.FormatCSV:
	default:
		return Config{}, fmt.Errorf("unsupported report format: %s", format)
	}

	target := strings.TrimSpace(*flagTarget)
	if target == "" {
		target = config.TargetHost()
	}

	return Config{
		ScenarioName: config.ResolveScenarioName(strings.TrimSpace(*flagScenario)),
		Environment:  config.ResolveEnvironment(strings.TrimSpace(*flagEnv)),
		Target:       target,
		ConfigPath:   strings.TrimSpace(*flagConfig),
		Format:       format,
		OutputFile:   strings.TrimSpace(*flagOut),
		DBPath:       strings.TrimSpace(*flagDB),
		RedisAddr:    strings.TrimSpace(*flagRedis),
		Seed:         *flagSeed,
		WaitAttempts: *flagWait,
		FailOnGate:   config.FailBuildOnViolation(),
	}, nil
}
