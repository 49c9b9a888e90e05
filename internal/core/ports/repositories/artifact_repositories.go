package repositories

import (
	"context"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
)

// ArtifactWriter persists the row-level outputs of a run (clean, quarantine, analytics, summary, report).
type ArtifactWriter interface {
	WriteArtifacts(ctx context.Context, runID string, result *domain.PipelineResult) error
}
