package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/catstash/catstash-api/internal/config"
	"github.com/catstash/catstash-api/internal/platform/catapi"
	"github.com/catstash/catstash-api/internal/platform/postgres"
	"github.com/catstash/catstash-api/internal/service"
	"github.com/catstash/catstash-api/internal/store"
	"github.com/catstash/catstash-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	assetStore store.AssetStore
	tagStore   store.TagStore
	taskStore  task.TaskStore

	// Source client
	sourceClient *catapi.Client

	// Services
	ingestionService *service.IngestionService
	catalogService   *service.CatalogService
	jobService       *service.JobService

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.assetStore = postgres.NewPostgresAssetStore(db, logger)
	app.tagStore = postgres.NewPostgresTagStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	// Initialize the source catalog client with a bounded HTTP client
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Source.RequestTimeoutSeconds) * time.Second,
	}
	app.sourceClient = catapi.NewClient(
		cfg.Source.BaseURL,
		cfg.Source.APIKey,
		httpClient,
		logger.With("component", "source_client"),
	)

	// Initialize ingestion service
	resolver, err := service.NewTagResolver(app.tagStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag resolver: %w", err)
	}

	app.ingestionService, err = service.NewIngestionService(
		app.sourceClient,
		app.assetStore,
		resolver,
		db,
		cfg.Source.FetchLimit,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestion service: %w", err)
	}

	// Initialize and start the task runner
	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	// Initialize catalog service
	app.catalogService, err = service.NewCatalogService(app.assetStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}

	// Initialize job service
	app.jobService, err = service.NewJobService(
		app.taskRunner,
		app.taskStore,
		app.ingestionService,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
// It uses the application struct to access required dependencies.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:   app.config.Ingest.QueueSize,
		WorkerCount: app.config.Ingest.WorkerCount,
	}, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop task runner
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
