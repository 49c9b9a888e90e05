package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the business category of a transaction row.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
	Refund  TransactionType = "REFUND"
)

// AllowedTransactionTypes lists the categories a row may carry, in report order.
var AllowedTransactionTypes = []TransactionType{Income, Expense, Refund}

// IsValid reports whether t is one of the allowed categories.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Refund:
		return true
	}
	return false
}

// Field names as they appear in the input schema.
const (
	FieldTransactionID   = "transaction_id"
	FieldTransactionDate = "transaction_date"
	FieldDepartmentID    = "department_id"
	FieldTransactionType = "transaction_type"
	FieldAmount          = "amount"
	FieldDescription     = "description"
)

// RequiredFields are the columns every batch must carry and every row must fill.
var RequiredFields = []string{
	FieldTransactionID,
	FieldTransactionDate,
	FieldDepartmentID,
	FieldTransactionType,
	FieldAmount,
}

// TransactionRecord is one row of a batch as decoded from the source.
// Raw values stay strings; nil means the value was null or absent.
type TransactionRecord struct {
	TransactionID   *string `json:"transactionID"`
	TransactionDate *string `json:"transactionDate"`
	DepartmentID    *string `json:"departmentID"`
	TransactionType *string `json:"transactionType"`
	Amount          *string `json:"amount"`
	Description     *string `json:"description,omitempty"`

	// Extra keeps columns outside the known schema so artifacts can round-trip them.
	Extra map[string]*string `json:"extra,omitempty"`

	// Working values filled in by the rule engine when the raw value parses.
	ParsedDate   *time.Time       `json:"-"`
	ParsedAmount *decimal.Decimal `json:"-"`
}

// Field returns the raw value of a named field.
func (r TransactionRecord) Field(name string) *string {
	switch name {
	case FieldTransactionID:
		return r.TransactionID
	case FieldTransactionDate:
		return r.TransactionDate
	case FieldDepartmentID:
		return r.DepartmentID
	case FieldTransactionType:
		return r.TransactionType
	case FieldAmount:
		return r.Amount
	case FieldDescription:
		return r.Description
	}
	return r.Extra[name]
}

// SetField assigns the raw value of a named field. Unknown names go to Extra.
func (r *TransactionRecord) SetField(name string, value *string) {
	switch name {
	case FieldTransactionID:
		r.TransactionID = value
	case FieldTransactionDate:
		r.TransactionDate = value
	case FieldDepartmentID:
		r.DepartmentID = value
	case FieldTransactionType:
		r.TransactionType = value
	case FieldAmount:
		r.Amount = value
	case FieldDescription:
		r.Description = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]*string)
		}
		r.Extra[name] = value
	}
}

// Value returns the trimmed raw value of a named field, or "" when it is null.
func (r TransactionRecord) Value(name string) string {
	v := r.Field(name)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// Type returns the trimmed transaction type.
func (r TransactionRecord) Type() TransactionType {
	return TransactionType(r.Value(FieldTransactionType))
}

// RecordSet is an ordered batch of records plus the columns it was decoded with.
type RecordSet struct {
	Columns []string            `json:"columns"`
	Records []TransactionRecord `json:"records"`
}

// Len returns the number of records in the set.
func (rs RecordSet) Len() int {
	return len(rs.Records)
}
