// Package task implements the in-process background job machinery:
// a persisted task record per queued unit of work, a buffered queue,
// and a worker-pool runner that executes tasks and tracks their status
// through pending, processing, completed, and failed. The ingestion
// pipeline runs as a task; callers poll its status by task ID.
package task
