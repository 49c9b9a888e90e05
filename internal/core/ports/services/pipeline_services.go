package services

import (
	"context"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
)

// PipelineSvc runs validation, the threshold gate and aggregation over one batch.
type PipelineSvc interface {
	// Run returns a result for every gate decision, FAIL_STRICT included.
	// Errors are reserved for structural and invariant failures.
	Run(ctx context.Context, rs domain.RecordSet, policy domain.ValidationPolicy) (*domain.PipelineResult, error)
}

// BatchWriterSvc processes a batch end to end and records the run.
type BatchWriterSvc interface {
	// ProcessBatch returns the outcome together with apperrors.ErrThresholdBreached on FAIL_STRICT.
	ProcessBatch(ctx context.Context, req domain.BatchRequest) (*domain.BatchOutcome, error)
}

// RunReaderSvc exposes the recorded runs.
type RunReaderSvc interface {
	GetRun(ctx context.Context, runID string) (*domain.PipelineRun, error)
	ListRuns(ctx context.Context, limit int, nextToken *string) (*domain.RunPage, error)
}

// BatchSvcFacade combines the batch and run services
type BatchSvcFacade interface {
	BatchWriterSvc
	RunReaderSvc
}

// EventTracker receives product analytics events.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
