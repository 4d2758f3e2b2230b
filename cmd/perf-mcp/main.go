package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/mcp"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/store"
)

func main() {
	dbPath := flag.String("db", "", "SQLite run history path exposed as perf://last-run (empty = disabled)")
	flag.Parse()

	var runs mcp.RunSource
	if *dbPath != "" {
		db, err := store.NewStore(*dbPath)
		if err != nil {
			slog.Error("failed to open run history db", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		runs = db
	}

	if err := mcp.NewServer(runs).Serve(); err != nil {
		slog.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}
