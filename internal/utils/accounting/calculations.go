package accounting

import (
	"fmt"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimal places kept on normalized amounts and totals.
const MoneyPrecision int32 = 2

// Sign returns the canonical sign of a transaction type.
// INCOME -> +1, EXPENSE and REFUND -> -1.
func Sign(txnType domain.TransactionType) (int64, error) {
	switch txnType {
	case domain.Income:
		return 1, nil
	case domain.Expense, domain.Refund:
		return -1, nil
	default:
		return 0, fmt.Errorf("unknown transaction type '%s'", txnType)
	}
}

// NormalizeAmount applies the canonical sign to the absolute amount and rounds it.
// The source sign is discarded, so a REFUND of -10.00 and an EXPENSE of 10.00 both become -10.00.
func NormalizeAmount(amount decimal.Decimal, txnType domain.TransactionType) (decimal.Decimal, error) {
	sign, err := Sign(txnType)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(amount.Abs().Mul(decimal.NewFromInt(sign))), nil
}

// RoundMoney rounds half away from zero to MoneyPrecision places (10.005 -> 10.01, -10.005 -> -10.01).
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPrecision)
}

// FormatMoney renders an amount with exactly MoneyPrecision places.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// CheckSignConvention returns the rejection reason when amount has the wrong sign for txnType.
// INCOME and EXPENSE must be strictly positive, REFUND strictly negative; zero fails every type.
func CheckSignConvention(txnType domain.TransactionType, amount decimal.Decimal) (domain.RejectionReason, bool) {
	switch txnType {
	case domain.Income:
		if !amount.IsPositive() {
			return domain.ReasonIncomeAmountMustBePositive, false
		}
	case domain.Expense:
		if !amount.IsPositive() {
			return domain.ReasonExpenseAmountMustBePositive, false
		}
	case domain.Refund:
		if !amount.IsNegative() {
			return domain.ReasonRefundAmountMustBeNegative, false
		}
	}
	return "", true
}
