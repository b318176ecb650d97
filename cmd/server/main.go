// Package main implements the entry point for the Kouza API server, which
// schedules spaced repetition flashcards, aggregates study sessions into
// retention estimates, tracks learning goals, and generates cards from
// lesson content with an LLM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/xelami/kouza-api/internal/config"
	"github.com/xelami/kouza-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run() error {
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database connection", "error", err)
		}
	}()

	if err := runMigrations(db, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if *migrateOnly {
		appLogger.Info("migrations complete, exiting")
		return nil
	}

	app, err := newApplication(context.Background(), cfg, db, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	appLogger.Info("starting HTTP server", "port", cfg.Server.Port)
	return app.startHTTPServer(context.Background(), app.setupRouter())
}
