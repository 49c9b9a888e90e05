package services

import (
	"sort"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type aggregateKey struct {
	department string
	yearMonth  string
}

// Aggregate pivots normalized records into one row per (department, month).
// Absent categories are zero and net is the algebraic sum of the three totals.
func Aggregate(records []domain.NormalizedRecord) []domain.AggregateRow {
	groups := make(map[aggregateKey]*domain.AggregateRow)
	for _, rec := range records {
		key := aggregateKey{department: rec.DepartmentID, yearMonth: rec.YearMonth}
		row, ok := groups[key]
		if !ok {
			row = &domain.AggregateRow{
				DepartmentID: rec.DepartmentID,
				YearMonth:    rec.YearMonth,
				TotalIncome:  decimal.Zero,
				TotalExpense: decimal.Zero,
				TotalRefund:  decimal.Zero,
			}
			groups[key] = row
		}
		switch rec.TransactionType {
		case domain.Income:
			row.TotalIncome = row.TotalIncome.Add(rec.AmountNormalized)
		case domain.Expense:
			row.TotalExpense = row.TotalExpense.Add(rec.AmountNormalized)
		case domain.Refund:
			row.TotalRefund = row.TotalRefund.Add(rec.AmountNormalized)
		}
	}

	rows := make([]domain.AggregateRow, 0, len(groups))
	for _, row := range groups {
		row.TotalIncome = accounting.RoundMoney(row.TotalIncome)
		row.TotalExpense = accounting.RoundMoney(row.TotalExpense)
		row.TotalRefund = accounting.RoundMoney(row.TotalRefund)
		row.Net = accounting.RoundMoney(row.TotalIncome.Add(row.TotalExpense).Add(row.TotalRefund))
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DepartmentID != rows[j].DepartmentID {
			return rows[i].DepartmentID < rows[j].DepartmentID
		}
		return rows[i].YearMonth < rows[j].YearMonth
	})
	return rows
}

// SumTotals adds up the aggregate rows into batch-wide category totals.
func SumTotals(rows []domain.AggregateRow) domain.CategoryTotals {
	totals := domain.CategoryTotals{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Refund:  decimal.Zero,
		Net:     decimal.Zero,
	}
	for _, r := range rows {
		totals.Income = totals.Income.Add(r.TotalIncome)
		totals.Expense = totals.Expense.Add(r.TotalExpense)
		totals.Refund = totals.Refund.Add(r.TotalRefund)
		totals.Net = totals.Net.Add(r.Net)
	}
	return totals
}
