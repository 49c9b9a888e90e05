package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PipelineRun is the persisted record of one pipeline execution.
type PipelineRun struct {
	RunID         string          `json:"run_id"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
	Source        string          `json:"source"` // input path, or "api" for HTTP submissions
	Mode          GateMode        `json:"mode"`
	Decision      GateDecision    `json:"decision"`
	InputRows     int             `json:"input_rows"`
	CleanRows     int             `json:"clean_rows"`
	RejectedRows  int             `json:"rejected_rows"`
	RejectionRate decimal.Decimal `json:"quarantine_rate"`
	IncomeTotal   decimal.Decimal `json:"income_total"`
	ExpenseTotal  decimal.Decimal `json:"expense_total"`
	RefundTotal   decimal.Decimal `json:"refund_total"`
	NetTotal      decimal.Decimal `json:"net_total"`
	Departments   int             `json:"departments"`
	Months        int             `json:"months"`
	Aggregates    []AggregateRow  `json:"aggregates,omitempty"`
}

// ShortID returns the first eight characters of the run id.
func (r PipelineRun) ShortID() string {
	if len(r.RunID) <= 8 {
		return r.RunID
	}
	return r.RunID[:8]
}

// Duration is the wall time between start and finish.
func (r PipelineRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunPage is one page of runs, newest first.
type RunPage struct {
	Runs      []PipelineRun
	NextToken *string
}

// BatchRequest is one batch submitted for processing.
type BatchRequest struct {
	Source  string
	Records RecordSet
	Policy  ValidationPolicy
}

// BatchOutcome is what a processed batch hands back to its caller.
type BatchOutcome struct {
	Run    PipelineRun
	Result *PipelineResult
}
