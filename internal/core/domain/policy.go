package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GateMode controls what happens when a batch breaches the rejection threshold.
type GateMode string

const (
	ModeStrict  GateMode = "STRICT"
	ModeLenient GateMode = "LENIENT"
)

// ParseGateMode accepts a mode name in any case.
func ParseGateMode(s string) (GateMode, error) {
	switch m := GateMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeStrict, ModeLenient:
		return m, nil
	}
	return "", fmt.Errorf("unknown gate mode %q (want STRICT or LENIENT)", s)
}

// GateDecision is the batch-level verdict of the threshold gate.
type GateDecision string

const (
	CleanPass       GateDecision = "CLEAN_PASS"
	PassWithWarning GateDecision = "PASS_WITH_WARNING"
	BreachLenient   GateDecision = "BREACH_LENIENT"
	FailStrict      GateDecision = "FAIL_STRICT"
)

// Passed reports whether downstream aggregation may proceed.
func (d GateDecision) Passed() bool {
	return d != FailStrict
}

// DefaultDateLayouts are tried in order when parsing transaction_date.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ValidationPolicy is the immutable configuration handed to the rule engine and the gate.
type ValidationPolicy struct {
	MaxRejectRate        decimal.Decimal `json:"maxRejectRate"`
	MaxRejectRows        int             `json:"maxRejectRows"` // 0 disables the row cap
	Mode                 GateMode        `json:"mode"`
	QuarantineDuplicates bool            `json:"quarantineDuplicates"`
	DateLayouts          []string        `json:"dateLayouts,omitempty"`
}

// DefaultPolicy mirrors the configuration defaults: 5% rate, no row cap, strict mode.
func DefaultPolicy() ValidationPolicy {
	return ValidationPolicy{
		MaxRejectRate: decimal.RequireFromString("0.05"),
		Mode:          ModeStrict,
		DateLayouts:   DefaultDateLayouts,
	}
}

// maxRateDecimals caps the precision of MaxRejectRate.
const maxRateDecimals = 18

// Validate checks the policy bounds.
func (p ValidationPolicy) Validate() error {
	if exp := p.MaxRejectRate.Exponent(); exp < -maxRateDecimals || exp > maxRateDecimals {
		return fmt.Errorf("max reject rate exponent %d is outside the supported precision", exp)
	}
	if p.MaxRejectRate.IsNegative() || p.MaxRejectRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("max reject rate must be within [0,1], got %s", p.MaxRejectRate)
	}
	if p.MaxRejectRows < 0 {
		return fmt.Errorf("max reject rows must not be negative, got %d", p.MaxRejectRows)
	}
	if p.Mode != ModeStrict && p.Mode != ModeLenient {
		return fmt.Errorf("unknown gate mode %q", p.Mode)
	}
	return nil
}

// Layouts returns the configured date layouts or the defaults.
func (p ValidationPolicy) Layouts() []string {
	if len(p.DateLayouts) == 0 {
		return DefaultDateLayouts
	}
	return p.DateLayouts
}

// GateResult is the outcome of applying a policy to batch counts.
type GateResult struct {
	Decision      GateDecision    `json:"decision"`
	Breached      bool            `json:"breached"`
	RejectionRate decimal.Decimal `json:"rejectionRate"`
	Rejected      int             `json:"rejected"`
	Total         int             `json:"total"`
	RateBreached  bool            `json:"rateBreached"`
	RowsBreached  bool            `json:"rowsBreached"`
}
