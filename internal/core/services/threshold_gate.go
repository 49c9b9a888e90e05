package services

import (
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ThresholdGate turns batch rejection counts into a pass/fail decision.
type ThresholdGate struct {
	policy domain.ValidationPolicy
}

// NewThresholdGate creates a gate for the given policy.
func NewThresholdGate(policy domain.ValidationPolicy) *ThresholdGate {
	return &ThresholdGate{policy: policy}
}

// Evaluate applies the policy. A rate equal to the maximum does not breach.
func (g *ThresholdGate) Evaluate(rejected, total int) domain.GateResult {
	res := domain.GateResult{
		RejectionRate: domain.RejectionRate(rejected, total),
		Rejected:      rejected,
		Total:         total,
		RateBreached:  g.rateBreached(rejected, total),
		RowsBreached:  g.policy.MaxRejectRows > 0 && rejected > g.policy.MaxRejectRows,
	}
	res.Breached = res.RateBreached || res.RowsBreached

	switch {
	case res.Breached && g.policy.Mode == domain.ModeLenient:
		res.Decision = domain.BreachLenient
	case res.Breached:
		res.Decision = domain.FailStrict
	case rejected > 0:
		res.Decision = domain.PassWithWarning
	default:
		res.Decision = domain.CleanPass
	}
	return res
}

// rateBreached compares rejected/total with the maximum without dividing, so a
// rate that differs from the maximum only past the division precision still breaches.
func (g *ThresholdGate) rateBreached(rejected, total int) bool {
	if total == 0 {
		return false
	}
	limit := g.policy.MaxRejectRate.Mul(decimal.NewFromInt(int64(total)))
	return decimal.NewFromInt(int64(rejected)).GreaterThan(limit)
}
