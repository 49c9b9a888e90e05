package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PipelineRun mirrors a row of the pipeline_runs table.
type PipelineRun struct {
	RunID         string          `json:"runID"` // Primary Key (UUID)
	StartedAt     time.Time       `json:"startedAt"`
	FinishedAt    time.Time       `json:"finishedAt"`
	Source        string          `json:"source"`
	Mode          string          `json:"mode"`     // STRICT or LENIENT
	Decision      string          `json:"decision"` // gate decision
	InputRows     int             `json:"inputRows"`
	CleanRows     int             `json:"cleanRows"`
	RejectedRows  int             `json:"rejectedRows"`
	RejectionRate decimal.Decimal `json:"rejectionRate"` // NUMERIC(7,6)
	IncomeTotal   decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal  decimal.Decimal `json:"expenseTotal"`
	RefundTotal   decimal.Decimal `json:"refundTotal"`
	NetTotal      decimal.Decimal `json:"netTotal"`
	Departments   int             `json:"departments"`
	Months        int             `json:"months"`
}

// RunAggregate mirrors a row of the run_aggregates table.
type RunAggregate struct {
	RunID        string          `json:"runID"` // FK -> pipeline_runs.run_id
	DepartmentID string          `json:"departmentID"`
	YearMonth    string          `json:"yearMonth"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	TotalRefund  decimal.Decimal `json:"totalRefund"`
	Net          decimal.Decimal `json:"net"`
}
