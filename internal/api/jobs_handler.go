package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/catstash/catstash-api/internal/api/shared"
	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/platform/logger"
)

// JobController queues ingestion jobs and answers status lookups.
type JobController interface {
	QueueFetch(ctx context.Context) (string, error)
	Status(ctx context.Context, jobID string) (domain.JobStatus, error)
}

// JobsHandler handles ingestion job HTTP requests.
type JobsHandler struct {
	jobs   JobController
	logger *slog.Logger
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(jobs JobController, baseLogger *slog.Logger) *JobsHandler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}
	return &JobsHandler{
		jobs:   jobs,
		logger: baseLogger.With(slog.String("handler", "jobs")),
	}
}

// QueueFetch handles POST /api/cats/fetch requests. Ingestion runs
// asynchronously, so the response is 202 Accepted with the job ID to
// poll.
func (h *JobsHandler) QueueFetch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	jobID, err := h.jobs.QueueFetch(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to queue fetch job", err)
		return
	}

	log.Info("fetch job queued", slog.String("job_id", jobID))

	shared.RespondWithJSON(w, r, http.StatusAccepted, JobResponse{
		JobID:  jobID,
		Status: string(domain.JobStatusQueued),
	})
}

// GetJob handles GET /api/jobs/{id} requests. An unknown or malformed
// job ID yields 404, not an error.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Job ID is required")
		return
	}

	status, err := h.jobs.Status(r.Context(), jobID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to look up job status", err)
		return
	}

	if status == domain.JobStatusNotFound {
		shared.RespondWithError(w, r, http.StatusNotFound, "Job not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, JobResponse{
		JobID:  jobID,
		Status: string(status),
	})
}
