package repositories

import (
	"context"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
)

// RunReader defines read operations for recorded pipeline runs
type RunReader interface {
	// FindRunByID returns apperrors.ErrNotFound when no run has the id.
	FindRunByID(ctx context.Context, runID string) (*domain.PipelineRun, error)

	// ListRuns returns runs newest first. nextToken comes from a previous page.
	ListRuns(ctx context.Context, limit int, nextToken *string) (*domain.RunPage, error)
}

// RunWriter defines write operations for pipeline runs
type RunWriter interface {
	// SaveRun stores the run metadata together with its aggregate rows.
	SaveRun(ctx context.Context, run domain.PipelineRun) error
}

// RunRepositoryFacade combines all run repository interfaces
type RunRepositoryFacade interface {
	RunReader
	RunWriter
}
