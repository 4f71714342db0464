package store

import (
	"context"

	"github.com/jameela786/pubmed-papers/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Query  string          `json:"query,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the run history.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, query string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Papers
	SavePapers(ctx context.Context, runID string, papers []model.Paper) error
	GetPapers(ctx context.Context, runID string) ([]model.Paper, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
