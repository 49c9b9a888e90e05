package mapping

import (
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/models"
)

// ToModelRun converts a domain PipelineRun to a model PipelineRun
func ToModelRun(d domain.PipelineRun) models.PipelineRun {
	return models.PipelineRun{
		RunID:         d.RunID,
		StartedAt:     d.StartedAt,
		FinishedAt:    d.FinishedAt,
		Source:        d.Source,
		Mode:          string(d.Mode),
		Decision:      string(d.Decision),
		InputRows:     d.InputRows,
		CleanRows:     d.CleanRows,
		RejectedRows:  d.RejectedRows,
		RejectionRate: d.RejectionRate,
		IncomeTotal:   d.IncomeTotal,
		ExpenseTotal:  d.ExpenseTotal,
		RefundTotal:   d.RefundTotal,
		NetTotal:      d.NetTotal,
		Departments:   d.Departments,
		Months:        d.Months,
	}
}

// ToDomainRun converts a model PipelineRun and its aggregate rows to a domain PipelineRun
func ToDomainRun(m models.PipelineRun, aggregates []models.RunAggregate) domain.PipelineRun {
	return domain.PipelineRun{
		RunID:         m.RunID,
		StartedAt:     m.StartedAt,
		FinishedAt:    m.FinishedAt,
		Source:        m.Source,
		Mode:          domain.GateMode(m.Mode),
		Decision:      domain.GateDecision(m.Decision),
		InputRows:     m.InputRows,
		CleanRows:     m.CleanRows,
		RejectedRows:  m.RejectedRows,
		RejectionRate: m.RejectionRate,
		IncomeTotal:   m.IncomeTotal,
		ExpenseTotal:  m.ExpenseTotal,
		RefundTotal:   m.RefundTotal,
		NetTotal:      m.NetTotal,
		Departments:   m.Departments,
		Months:        m.Months,
		Aggregates:    ToDomainAggregateSlice(aggregates),
	}
}

// ToModelAggregates converts the aggregate rows of a run to model rows
func ToModelAggregates(runID string, rows []domain.AggregateRow) []models.RunAggregate {
	ms := make([]models.RunAggregate, len(rows))
	for i, r := range rows {
		ms[i] = models.RunAggregate{
			RunID:        runID,
			DepartmentID: r.DepartmentID,
			YearMonth:    r.YearMonth,
			TotalIncome:  r.TotalIncome,
			TotalExpense: r.TotalExpense,
			TotalRefund:  r.TotalRefund,
			Net:          r.Net,
		}
	}
	return ms
}

// ToDomainAggregateSlice converts a slice of model aggregates to domain aggregate rows
func ToDomainAggregateSlice(ms []models.RunAggregate) []domain.AggregateRow {
	if len(ms) == 0 {
		return nil
	}
	ds := make([]domain.AggregateRow, len(ms))
	for i, m := range ms {
		ds[i] = domain.AggregateRow{
			DepartmentID: m.DepartmentID,
			YearMonth:    m.YearMonth,
			TotalIncome:  m.TotalIncome,
			TotalExpense: m.TotalExpense,
			TotalRefund:  m.TotalRefund,
			Net:          m.Net,
		}
	}
	return ds
}
