package services

import "github.com/SscSPs/finance_batch_pipeline/internal/core/domain"

// Split partitions the evaluated batch into valid records and rejected outcomes.
// Both sides keep input order; every record lands on exactly one side.
func Split(outcome domain.ValidationOutcome) domain.SplitResult {
	res := domain.SplitResult{
		Valid:    make([]domain.TransactionRecord, 0, outcome.Valid),
		Rejected: make([]domain.RecordOutcome, 0, outcome.Rejected),
	}
	for _, r := range outcome.Results {
		if r.Rejected() {
			res.Rejected = append(res.Rejected, r)
			continue
		}
		res.Valid = append(res.Valid, r.Record)
	}
	return res
}
