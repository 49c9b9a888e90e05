package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	portssvc "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/services"
)

// pipelineService implements the PipelineSvc interface
type pipelineService struct {
	BaseService
	mu sync.Mutex
}

// NewPipelineService creates a new pipeline service
func NewPipelineService() portssvc.PipelineSvc {
	return &pipelineService{}
}

// Ensure pipelineService implements the PipelineSvc interface
var _ portssvc.PipelineSvc = (*pipelineService)(nil)

// Run executes schema check, rules, split, gate, normalization, aggregation and reporting in order.
// Runs are serialized.
func (s *pipelineService) Run(ctx context.Context, rs domain.RecordSet, policy domain.ValidationPolicy) (*domain.PipelineResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := CheckSchema(rs.Columns); err != nil {
		s.LogError(ctx, err, "Batch rejected before validation", "columns", rs.Columns)
		return nil, err
	}

	outcome := NewRuleEngine(policy).Evaluate(rs)
	split := Split(outcome)
	gate := NewThresholdGate(policy).Evaluate(outcome.Rejected, outcome.Total)

	s.LogInfo(ctx, "Validation finished",
		"rows", outcome.Total,
		"valid", outcome.Valid,
		"rejected", outcome.Rejected,
		"duplicate_rows", outcome.DuplicateRows,
		"rejection_rate", gate.RejectionRate.String(),
		"decision", string(gate.Decision))

	result := &domain.PipelineResult{
		Columns: rs.Columns,
		Outcome: outcome,
		Split:   split,
		Gate:    gate,
	}

	if !gate.Decision.Passed() {
		s.LogWarn(ctx, "Rejection threshold breached in strict mode, skipping aggregation",
			"max_reject_rate", policy.MaxRejectRate.String(),
			"max_reject_rows", policy.MaxRejectRows)
		result.Report = BuildReport(outcome, gate, policy.Mode, nil)
		return result, nil
	}
	if gate.Decision == domain.BreachLenient {
		s.LogWarn(ctx, "Rejection threshold breached, continuing in lenient mode",
			"max_reject_rate", policy.MaxRejectRate.String(),
			"max_reject_rows", policy.MaxRejectRows)
	}

	normalized, err := Normalize(split.Valid)
	if err != nil {
		s.LogError(ctx, err, "Normalization failed")
		return nil, fmt.Errorf("failed to normalize valid records: %w", err)
	}
	result.Normalized = normalized
	result.Aggregates = Aggregate(normalized)
	result.Report = BuildReport(outcome, gate, policy.Mode, result.Aggregates)

	s.LogDebug(ctx, "Aggregation finished", "aggregate_rows", len(result.Aggregates))
	return result, nil
}
