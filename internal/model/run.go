package model

import "time"

// RunStatus represents the state of a saved query run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one fetch invocation persisted to the history store.
type Run struct {
	ID        string     `json:"id"`
	Query     string     `json:"query"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the summary counters for a completed run.
type RunResult struct {
	TotalResults     int      `json:"total_results"`
	PapersRetrieved  int      `json:"papers_retrieved"`
	PapersExported   int      `json:"papers_exported"`
	NonAcademicCount int      `json:"non_academic_count"`
	UniqueCompanies  []string `json:"unique_companies,omitempty"`
	Error            string   `json:"error,omitempty"`
}
