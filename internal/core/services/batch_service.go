package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/services"
	"github.com/google/uuid"
)

const batchRunCompletedEvent = "batch_run_completed"

// batchService implements the BatchSvcFacade interface
type batchService struct {
	BaseService
	pipeline  portssvc.PipelineSvc
	runRepo   portsrepo.RunRepositoryFacade
	artifacts portsrepo.ArtifactWriter
	tracker   portssvc.EventTracker
	now       func() time.Time
	newID     func() string
}

// BatchServiceOption is a functional option for configuring the batch service
type BatchServiceOption func(*batchService)

// WithArtifactWriter makes the service write row-level artifacts for every run.
func WithArtifactWriter(w portsrepo.ArtifactWriter) BatchServiceOption {
	return func(s *batchService) {
		s.artifacts = w
	}
}

// WithEventTracker sends a batch_run_completed event after every run.
func WithEventTracker(t portssvc.EventTracker) BatchServiceOption {
	return func(s *batchService) {
		s.tracker = t
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) BatchServiceOption {
	return func(s *batchService) {
		s.now = now
	}
}

// WithIDGenerator overrides how run ids are generated.
func WithIDGenerator(newID func() string) BatchServiceOption {
	return func(s *batchService) {
		s.newID = newID
	}
}

// NewBatchService creates a new batch service with the provided options
func NewBatchService(pipeline portssvc.PipelineSvc, runRepo portsrepo.RunRepositoryFacade, options ...BatchServiceOption) portssvc.BatchSvcFacade {
	svc := &batchService{
		pipeline: pipeline,
		runRepo:  runRepo,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure batchService implements the BatchSvcFacade interface
var _ portssvc.BatchSvcFacade = (*batchService)(nil)

// ProcessBatch runs the pipeline, writes artifacts, records the run and emits the completion event.
func (s *batchService) ProcessBatch(ctx context.Context, req domain.BatchRequest) (*domain.BatchOutcome, error) {
	runID := s.newID()
	startedAt := s.now()
	ctx = withRunLogger(ctx, runID)

	s.LogInfo(ctx, "Processing batch", "source", req.Source, "rows", req.Records.Len(), "mode", string(req.Policy.Mode))

	result, err := s.pipeline.Run(ctx, req.Records, req.Policy)
	if err != nil {
		return nil, err
	}

	if s.artifacts != nil {
		if err := s.artifacts.WriteArtifacts(ctx, runID, result); err != nil {
			s.LogError(ctx, err, "Failed to write run artifacts")
			return nil, fmt.Errorf("failed to write artifacts for run %s: %w", runID, err)
		}
	}

	run := buildRun(runID, req, result, startedAt, s.now())
	if err := s.runRepo.SaveRun(ctx, run); err != nil {
		s.LogError(ctx, err, "Failed to record run")
		return nil, fmt.Errorf("failed to record run %s: %w", runID, err)
	}

	if s.tracker != nil {
		s.tracker.Enqueue(runID, batchRunCompletedEvent, map[string]any{
			"source":         run.Source,
			"mode":           string(run.Mode),
			"decision":       string(run.Decision),
			"input_rows":     run.InputRows,
			"clean_rows":     run.CleanRows,
			"rejected_rows":  run.RejectedRows,
			"rejection_rate": run.RejectionRate.String(),
		})
	}

	outcome := &domain.BatchOutcome{Run: run, Result: result}
	if !result.Gate.Decision.Passed() {
		s.LogWarn(ctx, "Batch failed the rejection threshold",
			"rejected", result.Gate.Rejected, "total", result.Gate.Total)
		return outcome, fmt.Errorf("run %s: rejection rate %s%%: %w", runID, result.Report.RejectionRate, apperrors.ErrThresholdBreached)
	}

	s.LogInfo(ctx, "Batch processed", "decision", string(run.Decision), "aggregate_rows", len(run.Aggregates))
	return outcome, nil
}

// GetRun retrieves a recorded run by id.
func (s *batchService) GetRun(ctx context.Context, runID string) (*domain.PipelineRun, error) {
	run, err := s.runRepo.FindRunByID(ctx, runID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to retrieve run", "run_id", runID)
		}
		return nil, err
	}
	return run, nil
}

// ListRuns returns recorded runs newest first.
func (s *batchService) ListRuns(ctx context.Context, limit int, nextToken *string) (*domain.RunPage, error) {
	if limit <= 0 {
		limit = 20
	}
	page, err := s.runRepo.ListRuns(ctx, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list runs", "limit", limit)
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return page, nil
}

func buildRun(runID string, req domain.BatchRequest, result *domain.PipelineResult, startedAt, finishedAt time.Time) domain.PipelineRun {
	totals := result.Report.Totals
	return domain.PipelineRun{
		RunID:         runID,
		StartedAt:     startedAt,
		FinishedAt:    finishedAt,
		Source:        req.Source,
		Mode:          req.Policy.Mode,
		Decision:      result.Gate.Decision,
		InputRows:     result.Outcome.Total,
		CleanRows:     result.Outcome.Valid,
		RejectedRows:  result.Outcome.Rejected,
		RejectionRate: result.Gate.RejectionRate,
		IncomeTotal:   totals.Income,
		ExpenseTotal:  totals.Expense,
		RefundTotal:   totals.Refund,
		NetTotal:      totals.Net,
		Departments:   result.Report.Departments,
		Months:        result.Report.Months,
		Aggregates:    result.Aggregates,
	}
}
