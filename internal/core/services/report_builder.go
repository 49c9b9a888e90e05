package services

import (
	"sort"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BuildReport summarizes violations, the gate decision and the aggregates of one run.
func BuildReport(outcome domain.ValidationOutcome, gate domain.GateResult, mode domain.GateMode, aggregates []domain.AggregateRow) domain.ValidationReport {
	breakdown := make([]domain.ReasonCount, 0, len(outcome.ReasonCounts))
	for reason, n := range outcome.ReasonCounts {
		breakdown = append(breakdown, domain.ReasonCount{Reason: reason, Count: n})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Reason < breakdown[j].Reason
	})

	departments := make(map[string]struct{})
	months := make(map[string]struct{})
	for _, row := range aggregates {
		departments[row.DepartmentID] = struct{}{}
		months[row.YearMonth] = struct{}{}
	}

	return domain.ValidationReport{
		RowsChecked:     outcome.Total,
		ValidRows:       outcome.Valid,
		RejectedRows:    outcome.Rejected,
		RejectionRate:   accounting.FormatWithPrecision(gate.RejectionRate.Mul(hundred), 2),
		Decision:        gate.Decision,
		Mode:            mode,
		ReasonBreakdown: breakdown,
		DuplicateRows:   outcome.DuplicateRows,
		DuplicateIDs:    outcome.DuplicateIDs,
		AggregateRows:   len(aggregates),
		Departments:     len(departments),
		Months:          len(months),
		Totals:          SumTotals(aggregates),
	}
}
