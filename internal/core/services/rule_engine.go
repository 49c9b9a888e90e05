package services

import (
	"strings"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// maxAmountExponent bounds the exponent of an accepted amount in either direction.
const maxAmountExponent = 18

// parseAmount accepts decimal and scientific notation whose exponent stays within
// maxAmountExponent, so 1e-2000000000 is rejected as non-numeric.
func parseAmount(raw string) (decimal.Decimal, bool) {
	amt, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if exp := amt.Exponent(); exp < -maxAmountExponent || exp > maxAmountExponent {
		return decimal.Decimal{}, false
	}
	return amt, true
}

// RuleEngine evaluates every rule against every record and accumulates the reasons.
// Evaluation never short-circuits: a record can carry several reasons at once.
type RuleEngine struct {
	policy domain.ValidationPolicy
}

// NewRuleEngine creates a rule engine bound to an immutable policy.
func NewRuleEngine(policy domain.ValidationPolicy) *RuleEngine {
	return &RuleEngine{policy: policy}
}

// Evaluate runs the rules over the batch. The input set is not modified; the
// returned outcomes carry copies of the records with parsed values filled in.
func (e *RuleEngine) Evaluate(rs domain.RecordSet) domain.ValidationOutcome {
	dupCounts := e.countTransactionIDs(rs.Records)

	outcome := domain.ValidationOutcome{
		Results:      make([]domain.RecordOutcome, 0, len(rs.Records)),
		Total:        len(rs.Records),
		ReasonCounts: make(map[domain.RejectionReason]int),
	}

	for i, rec := range rs.Records {
		res := e.evaluateRecord(i, rec)

		if id := rec.Value(domain.FieldTransactionID); id != "" && dupCounts[id] > 1 {
			res.Warnings = append(res.Warnings, domain.ReasonDuplicateTransactionID)
			outcome.DuplicateRows++
			if e.policy.QuarantineDuplicates {
				res.Reasons = append(res.Reasons, domain.ReasonDuplicateTransactionID)
			}
		}

		for _, r := range res.Reasons {
			outcome.ReasonCounts[r]++
		}
		if res.Rejected() {
			outcome.Rejected++
		} else {
			outcome.Valid++
		}
		outcome.Results = append(outcome.Results, res)
	}

	for _, n := range dupCounts {
		if n > 1 {
			outcome.DuplicateIDs++
		}
	}

	return outcome
}

func (e *RuleEngine) evaluateRecord(index int, rec domain.TransactionRecord) domain.RecordOutcome {
	var reasons domain.ReasonSet

	// required-field presence
	missing := make(map[string]bool, len(domain.RequiredFields))
	for _, f := range domain.RequiredFields {
		if rec.Value(f) == "" {
			missing[f] = true
			reasons.Add(domain.MissingFieldReason(f))
		}
	}

	// date parseability
	if !missing[domain.FieldTransactionDate] {
		if d, ok := ParseDate(rec.Value(domain.FieldTransactionDate), e.policy.Layouts()); ok {
			rec.ParsedDate = &d
		} else {
			reasons.Add(domain.ReasonInvalidTransactionDate)
		}
	}

	// amount numeric-ness
	if !missing[domain.FieldAmount] {
		if amt, ok := parseAmount(rec.Value(domain.FieldAmount)); ok {
			rec.ParsedAmount = &amt
		} else {
			reasons.Add(domain.ReasonNonNumericAmount)
		}
	}

	// type membership
	txnType := rec.Type()
	typeOK := false
	if !missing[domain.FieldTransactionType] {
		if txnType.IsValid() {
			typeOK = true
		} else {
			reasons.Add(domain.ReasonInvalidTransactionType)
		}
	}

	// sign convention
	if typeOK && rec.ParsedAmount != nil {
		if reason, ok := accounting.CheckSignConvention(txnType, *rec.ParsedAmount); !ok {
			reasons.Add(reason)
		}
	}

	return domain.RecordOutcome{
		Index:   index,
		Record:  rec,
		Reasons: reasons.Slice(),
	}
}

func (e *RuleEngine) countTransactionIDs(records []domain.TransactionRecord) map[string]int {
	counts := make(map[string]int, len(records))
	for _, rec := range records {
		if id := rec.Value(domain.FieldTransactionID); id != "" {
			counts[id]++
		}
	}
	return counts
}

// ParseDate tries each layout in order and returns the calendar day in UTC.
func ParseDate(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
