package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAddr          = "127.0.0.1:8000"
	defaultWebAssetsMode = "embedded"
)

type Config struct {
	Addr          string
	Seed          int64
	LatencyScale  float64
	WebAssetsMode string
	WebDir        string
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	addr := addrFromEnv(defaultAddr)
	webAssetsMode := envOrDefault("PERF_MOCK_WEB_ASSETS_MODE", defaultWebAssetsMode)
	webDir := os.Getenv("PERF_MOCK_WEB_DIR")

	flagSet := flag.NewFlagSet("perf-mockd", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagAddr := flagSet.String("addr", addr, "HTTP listen address")
	flagSeed := flagSet.Int64("seed", 0, "latency simulation seed (0 = time-based)")
	flagScale := flagSet.Float64("latency-scale", 1.0, "multiplier on simulated latencies (0 disables sleeps)")
	flagWebAssets := flagSet.String("web-assets", webAssetsMode, "web assets mode: embedded|fs|off")
	flagWebDir := flagSet.String("web-dir", webDir, "web assets directory when web-assets=fs")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
			return Config{}, err
		}
		return Config{}, err
	}

	config := Config{
		Addr:          strings.TrimSpace(*flagAddr),
		Seed:          *flagSeed,
		LatencyScale:  *flagScale,
		WebAssetsMode: normalizeWebAssetsMode(*flagWebAssets),
		WebDir:        strings.TrimSpace(*flagWebDir),
	}

	if config.Addr == "" {
		return Config{}, errors.New("addr cannot be empty")
	}
	if config.LatencyScale < 0 {
		return Config{}, errors.New("latency-scale cannot be negative")
	}

	if config.WebAssetsMode == "fs" {
		if config.WebDir == "" {
			return Config{}, errors.New("web-assets=fs requires web-dir")
		}
		config.WebDir = resolvePath(config.WebDir, cwd)
	}

	if config.WebAssetsMode != "embedded" && config.WebAssetsMode != "fs" && config.WebAssetsMode != "off" {
		return Config{}, fmt.Errorf("unsupported web-assets mode: %s", config.WebAssetsMode)
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func addrFromEnv(fallback string) string {
	if value := os.Getenv("PERF_MOCK_ADDR"); value != "" {
		return value
	}
	if port := os.Getenv("PERF_MOCK_PORT"); port != "" {
		return fmt.Sprintf("127.0.0.1:%s", port)
	}
	return fallback
}

func resolvePath(path string, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}

func normalizeWebAssetsMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "embedded":
		return "embedded"
	case "fs", "dir", "directory":
		return "fs"
	case "off", "disabled", "none":
		return "off"
	default:
		return strings.ToLower(strings.TrimSpace(mode))
	}
}
