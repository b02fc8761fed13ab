package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrNilIngestionService = errors.New("ingestion service cannot be nil")
	ErrNilLogger           = errors.New("logger cannot be nil")
)

// IngestionService defines the interface the task needs from the
// ingestion pipeline. The task owns queueing concerns; the service owns
// the fetch/dedup/download/tag/persist logic.
type IngestionService interface {
	// Run executes one ingestion pass and reports per-item outcomes.
	// An error means the batch fetch itself failed; per-item failures are
	// absorbed into the summary.
	Run(ctx context.Context) (*domain.IngestionSummary, error)
}

// IngestionTask implements the Task interface for one catalog ingestion
// run. It carries no payload: each run pulls a fresh batch.
type IngestionTask struct {
	id        uuid.UUID
	status    TaskStatus
	ingestion IngestionService
	logger    *slog.Logger
}

// NewIngestionTask creates a new IngestionTask.
func NewIngestionTask(ingestion IngestionService, logger *slog.Logger) (*IngestionTask, error) {
	if ingestion == nil {
		return nil, ErrNilIngestionService
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &IngestionTask{
		id:        uuid.New(),
		status:    TaskStatusPending,
		ingestion: ingestion,
		logger:    logger.With(slog.String("component", "ingestion_task")),
	}, nil
}

// ID returns the task's unique identifier
func (t *IngestionTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *IngestionTask) Type() string {
	return TaskTypeCatalogIngestion
}

// Payload returns the task data as a byte slice
func (t *IngestionTask) Payload() []byte {
	return nil
}

// Status returns the current task status
func (t *IngestionTask) Status() TaskStatus {
	return t.status
}

// Execute runs the ingestion pipeline. The run fails only when the
// batch fetch fails; a summary with failed items is still a success.
func (t *IngestionTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	summary, err := t.ingestion.Run(ctx)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("ingestion run failed: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("ingestion run finished",
		"task_id", t.id,
		"added", summary.Added,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return nil
}
