package domain

// Candidate represents a record fetched from the external catalog that
// has not yet been persisted. Temperaments carries the raw comma-separated
// temperament string of each breed attached to the source record.
type Candidate struct {
	ExternalID   string
	URL          string
	Width        int
	Height       int
	Temperaments []string
}

// IngestionSummary reports the per-item outcomes of one ingestion run.
type IngestionSummary struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
