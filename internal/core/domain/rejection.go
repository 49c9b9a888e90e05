package domain

// RejectionReason is a tagged code attached to a record that failed a rule.
type RejectionReason string

const (
	ReasonInvalidTransactionDate      RejectionReason = "invalid_transaction_date"
	ReasonNonNumericAmount            RejectionReason = "non_numeric_amount"
	ReasonInvalidTransactionType      RejectionReason = "invalid_transaction_type"
	ReasonExpenseAmountMustBePositive RejectionReason = "expense_amount_must_be_positive"
	ReasonIncomeAmountMustBePositive  RejectionReason = "income_amount_must_be_positive"
	ReasonRefundAmountMustBeNegative  RejectionReason = "refund_amount_must_be_negative"
	ReasonDuplicateTransactionID      RejectionReason = "duplicate_transaction_id"
)

// MissingFieldReason returns the missing_<field> code for a required field.
func MissingFieldReason(field string) RejectionReason {
	return RejectionReason("missing_" + field)
}

// Severity separates reasons that quarantine a row from informational ones.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
)

// ReasonSet is an insertion-ordered set of reasons.
type ReasonSet struct {
	order []RejectionReason
	seen  map[RejectionReason]struct{}
}

// Add appends r unless it is already present.
func (s *ReasonSet) Add(r RejectionReason) {
	if s.seen == nil {
		s.seen = make(map[RejectionReason]struct{})
	}
	if _, ok := s.seen[r]; ok {
		return
	}
	s.seen[r] = struct{}{}
	s.order = append(s.order, r)
}

// Has reports whether r is in the set.
func (s *ReasonSet) Has(r RejectionReason) bool {
	_, ok := s.seen[r]
	return ok
}

// Len returns the number of distinct reasons.
func (s *ReasonSet) Len() int {
	return len(s.order)
}

// Slice returns the reasons in the order they were added.
func (s *ReasonSet) Slice() []RejectionReason {
	out := make([]RejectionReason, len(s.order))
	copy(out, s.order)
	return out
}
