package dto

import (
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
)

// AggregateResponse is one department and month total.
type AggregateResponse struct {
	DepartmentID string `json:"departmentID"`
	YearMonth    string `json:"yearMonth"`
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	TotalRefund  string `json:"totalRefund"`
	Net          string `json:"net"`
}

// RunResponse defines the data returned for a recorded run.
type RunResponse struct {
	RunID         string              `json:"runID"`
	StartedAt     time.Time           `json:"startedAt"`
	FinishedAt    time.Time           `json:"finishedAt"`
	DurationMS    int64               `json:"durationMs"`
	Source        string              `json:"source"`
	Mode          string              `json:"mode"`
	Decision      string              `json:"decision"`
	InputRows     int                 `json:"inputRows"`
	CleanRows     int                 `json:"cleanRows"`
	RejectedRows  int                 `json:"rejectedRows"`
	RejectionRate string              `json:"rejectionRate"`
	IncomeTotal   string              `json:"incomeTotal"`
	ExpenseTotal  string              `json:"expenseTotal"`
	RefundTotal   string              `json:"refundTotal"`
	NetTotal      string              `json:"netTotal"`
	Departments   int                 `json:"departments"`
	Months        int                 `json:"months"`
	Aggregates    []AggregateResponse `json:"aggregates,omitempty"`
}

// ListRunsParams defines the query parameters for listing runs.
type ListRunsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListRunsResponse wraps a page of runs.
type ListRunsResponse struct {
	Runs      []RunResponse `json:"runs"`
	NextToken *string       `json:"nextToken,omitempty"`
}

// ToRunResponse converts a domain.PipelineRun to RunResponse DTO.
func ToRunResponse(r *domain.PipelineRun) RunResponse {
	resp := RunResponse{
		RunID:         r.RunID,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		DurationMS:    r.Duration().Milliseconds(),
		Source:        r.Source,
		Mode:          string(r.Mode),
		Decision:      string(r.Decision),
		InputRows:     r.InputRows,
		CleanRows:     r.CleanRows,
		RejectedRows:  r.RejectedRows,
		RejectionRate: r.RejectionRate.String(),
		IncomeTotal:   r.IncomeTotal.StringFixed(2),
		ExpenseTotal:  r.ExpenseTotal.StringFixed(2),
		RefundTotal:   r.RefundTotal.StringFixed(2),
		NetTotal:      r.NetTotal.StringFixed(2),
		Departments:   r.Departments,
		Months:        r.Months,
	}
	if len(r.Aggregates) > 0 {
		resp.Aggregates = make([]AggregateResponse, len(r.Aggregates))
		for i, a := range r.Aggregates {
			resp.Aggregates[i] = AggregateResponse{
				DepartmentID: a.DepartmentID,
				YearMonth:    a.YearMonth,
				TotalIncome:  a.TotalIncome.StringFixed(2),
				TotalExpense: a.TotalExpense.StringFixed(2),
				TotalRefund:  a.TotalRefund.StringFixed(2),
				Net:          a.Net.StringFixed(2),
			}
		}
	}
	return resp
}

// ToListRunsResponse converts a page of runs.
func ToListRunsResponse(page *domain.RunPage) ListRunsResponse {
	runs := make([]RunResponse, len(page.Runs))
	for i := range page.Runs {
		runs[i] = ToRunResponse(&page.Runs[i])
	}
	return ListRunsResponse{Runs: runs, NextToken: page.NextToken}
}
