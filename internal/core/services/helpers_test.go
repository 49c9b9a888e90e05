package services_test

import (
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/shopspring/decimal"
)

var allColumns = []string{
	domain.FieldTransactionID,
	domain.FieldTransactionDate,
	domain.FieldDepartmentID,
	domain.FieldTransactionType,
	domain.FieldAmount,
	domain.FieldDescription,
}

// nullable returns nil for the empty string so "" reads as a null cell.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func record(id, date, dept, txnType, amount string) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID:   nullable(id),
		TransactionDate: nullable(date),
		DepartmentID:    nullable(dept),
		TransactionType: nullable(txnType),
		Amount:          nullable(amount),
	}
}

func recordSet(records ...domain.TransactionRecord) domain.RecordSet {
	return domain.RecordSet{Columns: allColumns, Records: records}
}

// scenarioBatch is three clean D1 rows plus one row without a date.
func scenarioBatch() domain.RecordSet {
	return recordSet(
		record("T1", "2025-01-05", "D1", "INCOME", "100.00"),
		record("T2", "2025-01-07", "D1", "EXPENSE", "40.00"),
		record("T3", "2025-01-20", "D1", "REFUND", "-10.00"),
		record("T4", "", "D2", "INCOME", "50.00"),
	)
}

func policy(maxRate string, mode domain.GateMode) domain.ValidationPolicy {
	p := domain.DefaultPolicy()
	p.MaxRejectRate = decimal.RequireFromString(maxRate)
	p.Mode = mode
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
