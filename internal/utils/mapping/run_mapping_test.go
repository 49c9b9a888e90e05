package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRunMapping(t *testing.T) {
	run := domain.PipelineRun{
		RunID:         "r1",
		StartedAt:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		FinishedAt:    time.Date(2025, 3, 1, 9, 0, 1, 0, time.UTC),
		Source:        "api",
		Mode:          domain.ModeLenient,
		Decision:      domain.BreachLenient,
		InputRows:     4,
		CleanRows:     3,
		RejectedRows:  1,
		RejectionRate: decimal.RequireFromString("0.25"),
		NetTotal:      decimal.RequireFromString("50"),
		Departments:   1,
		Months:        1,
		Aggregates: []domain.AggregateRow{
			{DepartmentID: "D1", YearMonth: "2025-01", Net: decimal.RequireFromString("50")},
		},
	}

	model := ToModelRun(run)
	assert.Equal(t, "LENIENT", model.Mode)
	assert.Equal(t, "BREACH_LENIENT", model.Decision)

	aggs := ToModelAggregates(run.RunID, run.Aggregates)
	assert.Len(t, aggs, 1)
	assert.Equal(t, "r1", aggs[0].RunID)

	back := ToDomainRun(model, aggs)
	assert.Equal(t, run, back)
}

func TestToDomainAggregateSlice_Empty(t *testing.T) {
	assert.Nil(t, ToDomainAggregateSlice(nil))
}
