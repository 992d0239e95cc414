// Package main is the entry point for the devconnect API server.
//
// The main package stays minimal: load configuration, create the logger,
// build the server, start it. Everything else lives in internal/ packages,
// which keeps the application testable without running main.
//
// WHY cmd/server/?
// The cmd/ directory is the Go convention for executable entry points; each
// binary gets its own subdirectory (here: cmd/server and cmd/seed).
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/devconnect/internal/config"
	"github.com/sakif/devconnect/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Debug level in development, Info in anything else.
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// The database lives in a subdirectory (data/ by default); create it
	// so a fresh checkout starts without manual setup.
	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(*cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM and shuts down gracefully.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
