package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/catstash/catstash-api/internal/api"
	apiMiddleware "github.com/catstash/catstash-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	// Create API handlers using the application's services
	catalogHandler := api.NewCatalogHandler(app.catalogService, app.logger)
	jobsHandler := api.NewJobsHandler(app.jobService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Get("/cats", catalogHandler.ListCats)
		r.Get("/cats/{id}", catalogHandler.GetCat)
		r.Get("/cats/{id}/image", catalogHandler.GetCatImage)

		// Ingestion job endpoints
		r.Post("/cats/fetch", jobsHandler.QueueFetch)
		r.Get("/jobs/{id}", jobsHandler.GetJob)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
