package services

import (
	"fmt"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/accounting"
)

// Normalize derives calendar fields and canonical signed amounts for valid records.
// A record without parsed values or with an unknown type is an invariant violation.
func Normalize(valid []domain.TransactionRecord) ([]domain.NormalizedRecord, error) {
	out := make([]domain.NormalizedRecord, 0, len(valid))
	for i, rec := range valid {
		id := rec.Value(domain.FieldTransactionID)
		if rec.ParsedDate == nil || rec.ParsedAmount == nil {
			return nil, fmt.Errorf("record %d (%s) has no parsed date or amount: %w", i, id, apperrors.ErrInvariantViolation)
		}
		txnType := rec.Type()
		normalized, err := accounting.NormalizeAmount(*rec.ParsedAmount, txnType)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %v: %w", i, id, err, apperrors.ErrInvariantViolation)
		}

		d := *rec.ParsedDate
		out = append(out, domain.NormalizedRecord{
			TransactionID:    id,
			TransactionDate:  d,
			DepartmentID:     rec.Value(domain.FieldDepartmentID),
			TransactionType:  txnType,
			Amount:           *rec.ParsedAmount,
			Description:      rec.Value(domain.FieldDescription),
			Year:             d.Year(),
			Month:            int(d.Month()),
			YearMonth:        d.Format("2006-01"),
			AmountNormalized: normalized,
		})
	}
	return out, nil
}
