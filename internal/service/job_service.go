package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/store"
	"github.com/catstash/catstash-api/internal/task"
	"github.com/google/uuid"
)

// TaskRunner defines the interface for submitting background tasks.
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, task task.Task) error
}

// JobService queues ingestion runs and answers status lookups by job ID.
// It is the only piece that knows the task runner's status vocabulary;
// everything above it speaks domain.JobStatus.
type JobService struct {
	runner    TaskRunner
	tasks     task.TaskStore
	ingestion task.IngestionService
	logger    *slog.Logger
}

// NewJobService creates a new JobService.
// If logger is nil, a default logger will be used.
func NewJobService(
	runner TaskRunner,
	tasks task.TaskStore,
	ingestion task.IngestionService,
	logger *slog.Logger,
) (*JobService, error) {
	if runner == nil {
		return nil, &ServiceError{
			Operation: "create_job_service",
			Message:   "task runner cannot be nil",
		}
	}
	if tasks == nil {
		return nil, &ServiceError{
			Operation: "create_job_service",
			Message:   "task store cannot be nil",
		}
	}
	if ingestion == nil {
		return nil, &ServiceError{
			Operation: "create_job_service",
			Message:   "ingestion service cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &JobService{
		runner:    runner,
		tasks:     tasks,
		ingestion: ingestion,
		logger:    logger.With(slog.String("component", "job_service")),
	}, nil
}

// QueueFetch queues a new ingestion run and returns its job ID. The call
// never blocks on the run itself.
func (s *JobService) QueueFetch(ctx context.Context) (string, error) {
	t, err := task.NewIngestionTask(s.ingestion, s.logger)
	if err != nil {
		return "", NewServiceError("queue_fetch", "failed to create ingestion task", err)
	}

	if err := s.runner.Submit(ctx, t); err != nil {
		s.logger.Error("failed to submit ingestion task", "error", err, "task_id", t.ID())
		return "", NewServiceError("queue_fetch", "failed to queue ingestion task", err)
	}

	jobID := t.ID().String()
	s.logger.Info("ingestion run queued", "job_id", jobID)
	return jobID, nil
}

// Status reports the current status of a previously queued run.
// A malformed, expired, or never-issued job ID yields JobStatusNotFound;
// that is a normal outcome, not an error.
func (s *JobService) Status(ctx context.Context, jobID string) (domain.JobStatus, error) {
	id, err := uuid.Parse(jobID)
	if err != nil {
		s.logger.Debug("malformed job ID", "job_id", jobID)
		return domain.JobStatusNotFound, nil
	}

	record, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return domain.JobStatusNotFound, nil
		}
		s.logger.Error("failed to look up job status", "error", err, "job_id", jobID)
		return "", NewServiceError("job_status", "failed to look up job status", err)
	}

	return mapTaskStatus(record.Status), nil
}

// mapTaskStatus translates the runner's status vocabulary into the
// externally visible one.
func mapTaskStatus(status task.TaskStatus) domain.JobStatus {
	switch status {
	case task.TaskStatusPending:
		return domain.JobStatusQueued
	case task.TaskStatusProcessing:
		return domain.JobStatusProcessing
	case task.TaskStatusCompleted:
		return domain.JobStatusSucceeded
	case task.TaskStatusFailed:
		return domain.JobStatusFailed
	default:
		return domain.JobStatusNotFound
	}
}
