package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizedRecord is a valid row with calendar fields and a canonical signed amount.
type NormalizedRecord struct {
	TransactionID    string          `json:"transactionID"`
	TransactionDate  time.Time       `json:"transactionDate"`
	DepartmentID     string          `json:"departmentID"`
	TransactionType  TransactionType `json:"transactionType"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	YearMonth        string          `json:"yearMonth"`
	AmountNormalized decimal.Decimal `json:"amountNormalized"`
}

// AggregateRow holds the monthly totals of one department.
type AggregateRow struct {
	DepartmentID string          `json:"departmentID"`
	YearMonth    string          `json:"yearMonth"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	TotalRefund  decimal.Decimal `json:"totalRefund"`
	Net          decimal.Decimal `json:"net"`
}

// ReasonCount is one line of the reason breakdown.
type ReasonCount struct {
	Reason RejectionReason `json:"reason"`
	Count  int             `json:"count"`
}

// ValidationReport is the summary handed to operators after a run.
type ValidationReport struct {
	RowsChecked     int            `json:"rowsChecked"`
	ValidRows       int            `json:"validRows"`
	RejectedRows    int            `json:"rejectedRows"`
	RejectionRate   string         `json:"rejectionRate"` // percentage, two decimals
	Decision        GateDecision   `json:"decision"`
	Mode            GateMode       `json:"mode"`
	ReasonBreakdown []ReasonCount  `json:"reasonBreakdown"`
	DuplicateRows   int            `json:"duplicateRows"`
	DuplicateIDs    int            `json:"duplicateIDs"`
	AggregateRows   int            `json:"aggregateRows"`
	Departments     int            `json:"departments"`
	Months          int            `json:"months"`
	Totals          CategoryTotals `json:"totals"`
}

// Render returns the plain-text form written to validation_report.txt.
func (r ValidationReport) Render() string {
	var b strings.Builder
	b.WriteString("Validation Report\n")
	b.WriteString("=================\n\n")
	fmt.Fprintf(&b, "Rows checked: %d\n", r.RowsChecked)
	fmt.Fprintf(&b, "Valid rows: %d\n", r.ValidRows)
	fmt.Fprintf(&b, "Rejected rows: %d\n", r.RejectedRows)
	fmt.Fprintf(&b, "Rejection rate: %s%%\n", r.RejectionRate)
	fmt.Fprintf(&b, "Gate mode: %s\n", r.Mode)
	fmt.Fprintf(&b, "Gate decision: %s\n\n", r.Decision)

	if len(r.ReasonBreakdown) > 0 {
		b.WriteString("REJECTION REASONS\n")
		b.WriteString("-----------------\n")
		for _, rc := range r.ReasonBreakdown {
			fmt.Fprintf(&b, "- %s | affected_rows=%d\n", rc.Reason, rc.Count)
		}
		b.WriteString("\n")
	}

	if r.DuplicateRows > 0 {
		b.WriteString("WARNINGS\n")
		b.WriteString("--------\n")
		fmt.Fprintf(&b, "- %s | affected_rows=%d distinct_ids=%d\n", ReasonDuplicateTransactionID, r.DuplicateRows, r.DuplicateIDs)
		b.WriteString("\n")
	}

	if len(r.ReasonBreakdown) == 0 && r.DuplicateRows == 0 {
		b.WriteString("No issues found.\n\n")
	}

	b.WriteString("AGGREGATES\n")
	b.WriteString("----------\n")
	if !r.Decision.Passed() {
		b.WriteString("Skipped: batch failed the rejection threshold.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Rows: %d\n", r.AggregateRows)
	fmt.Fprintf(&b, "Departments: %d\n", r.Departments)
	fmt.Fprintf(&b, "Months: %d\n", r.Months)
	fmt.Fprintf(&b, "Income total: %s\n", r.Totals.Income.StringFixed(2))
	fmt.Fprintf(&b, "Expense total: %s\n", r.Totals.Expense.StringFixed(2))
	fmt.Fprintf(&b, "Refund total: %s\n", r.Totals.Refund.StringFixed(2))
	fmt.Fprintf(&b, "Net total: %s\n", r.Totals.Net.StringFixed(2))
	return b.String()
}

// CategoryTotals are batch-wide sums of the normalized amounts.
type CategoryTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Refund  decimal.Decimal `json:"refund"`
	Net     decimal.Decimal `json:"net"`
}

// PipelineResult bundles every output of one pipeline run.
type PipelineResult struct {
	Columns    []string           `json:"columns"`
	Outcome    ValidationOutcome  `json:"outcome"`
	Split      SplitResult        `json:"split"`
	Gate       GateResult         `json:"gate"`
	Normalized []NormalizedRecord `json:"normalized,omitempty"`
	Aggregates []AggregateRow     `json:"aggregates,omitempty"`
	Report     ValidationReport   `json:"report"`
}
