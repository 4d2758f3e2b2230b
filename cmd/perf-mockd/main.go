package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/mockapi"
	"github.com/DeepFriedCyber/proof-messenger-perf/web"
)

func main() {
	config, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	srv := mockapi.NewServer(mockapi.Config{
		Addr:         config.Addr,
		Seed:         config.Seed,
		LatencyScale: config.LatencyScale,
	})

	switch config.WebAssetsMode {
	case "embedded":
		assets, err := web.Assets()
		if err != nil {
			slog.Error("failed to load embedded assets", "error", err)
			os.Exit(1)
		}
		srv.SetStaticFS(assets)
	case "fs":
		srv.SetStaticFS(os.DirFS(config.WebDir))
	case "off":
		// API only, no dashboard.
	}

	slog.Info("mock server starting", "addr", config.Addr, "web_assets", config.WebAssetsMode)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		slog.Info("shutdown initiated", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}
