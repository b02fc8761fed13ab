package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeCatalogIngestion represents the task type for pulling a batch
	// of candidate records from the external catalog into the store.
	TaskTypeCatalogIngestion = "catalog_ingestion"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskRecord is the persisted view of a task as read back from the
// store. Unlike Task it carries no behavior; the job status facade uses
// it to answer status lookups without rehydrating executable tasks.
type TaskRecord struct {
	ID           uuid.UUID
	Type         string
	Status       TaskStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a task to the database
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetByID retrieves the persisted record for a task.
	// Returns store.ErrTaskNotFound if no record exists.
	GetByID(ctx context.Context, taskID uuid.UUID) (*TaskRecord, error)

	// MarkInterrupted fails every task still recorded as pending or
	// processing. Called once at startup: such records belong to runs cut
	// short by a previous shutdown, and an interrupted run is retried by
	// queueing a new one rather than resumed.
	MarkInterrupted(ctx context.Context) (int64, error)

	// FailStuckTasks fails every task that has sat in processing longer
	// than olderThan. Such records lost their status update (a worker died
	// without the process exiting); the run itself is not resumable.
	FailStuckTasks(ctx context.Context, olderThan time.Duration) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
