package domain

// JobStatus represents the externally visible state of a queued
// ingestion run. It is derived on demand from the task runner's records;
// the domain does not own its storage.
type JobStatus string

// Possible job status values
const (
	JobStatusQueued     JobStatus = "Queued"
	JobStatusProcessing JobStatus = "Processing"
	JobStatusSucceeded  JobStatus = "Succeeded"
	JobStatusFailed     JobStatus = "Failed"
	JobStatusNotFound   JobStatus = "NotFound"
)
