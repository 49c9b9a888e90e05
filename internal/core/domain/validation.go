package domain

import "github.com/shopspring/decimal"

// RecordOutcome pairs a record with everything the rule engine found on it.
type RecordOutcome struct {
	Index    int               `json:"index"` // position in the input batch
	Record   TransactionRecord `json:"record"`
	Reasons  []RejectionReason `json:"reasons"`
	Warnings []RejectionReason `json:"warnings,omitempty"`
}

// Rejected reports whether the record carries at least one rejection reason.
func (o RecordOutcome) Rejected() bool {
	return len(o.Reasons) > 0
}

// ValidationOutcome is the rule engine result for a whole batch, in input order.
type ValidationOutcome struct {
	Results       []RecordOutcome         `json:"results"`
	Total         int                     `json:"total"`
	Valid         int                     `json:"valid"`
	Rejected      int                     `json:"rejected"`
	ReasonCounts  map[RejectionReason]int `json:"reasonCounts"`
	DuplicateRows int                     `json:"duplicateRows"` // rows sharing a transaction_id with another row
	DuplicateIDs  int                     `json:"duplicateIDs"`  // distinct ids that repeat
}

// RejectionRate returns rejected/total, or zero for an empty batch.
func (v ValidationOutcome) RejectionRate() decimal.Decimal {
	return RejectionRate(v.Rejected, v.Total)
}

// RejectionRate returns rejected/total, or zero when total is zero.
func RejectionRate(rejected, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(rejected)).Div(decimal.NewFromInt(int64(total)))
}

// SplitResult is the partition of a batch into clean and quarantined rows.
type SplitResult struct {
	Valid    []TransactionRecord `json:"valid"`
	Rejected []RecordOutcome     `json:"rejected"`
}
