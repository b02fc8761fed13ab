// Package main implements the entry point for the catstash API server,
// which ingests cat images from an external catalog, tags them, and
// serves them back through a paginated HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// run wires configuration, logging, storage, and the HTTP server
// together. Kept separate from main so errors propagate to one exit
// point.
func run(migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := setupAppLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	// Migration-only invocation: run the command and exit without
	// starting the server.
	if migrateCmd != "" {
		return handleMigrations(cfg, migrateCmd)
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
