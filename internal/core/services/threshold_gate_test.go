package services_test

import (
	"testing"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestThresholdGate_Decisions(t *testing.T) {
	tests := []struct {
		name     string
		policy   domain.ValidationPolicy
		rejected int
		total    int
		expected domain.GateDecision
		breached bool
	}{
		{"clean pass", policy("0.05", domain.ModeStrict), 0, 100, domain.CleanPass, false},
		{"pass with warning", policy("0.05", domain.ModeStrict), 3, 100, domain.PassWithWarning, false},
		{"breach lenient", policy("0.05", domain.ModeLenient), 25, 100, domain.BreachLenient, true},
		{"fail strict", policy("0.05", domain.ModeStrict), 25, 100, domain.FailStrict, true},
		{"rate equal to maximum does not breach", policy("0.05", domain.ModeStrict), 5, 100, domain.PassWithWarning, false},
		{"rate just above maximum breaches", policy("0.05", domain.ModeStrict), 6, 100, domain.FailStrict, true},
		{"one third breaches a maximum just below it", policy("0.3333333333333333", domain.ModeStrict), 1, 3, domain.FailStrict, true},
		{"one third under a slightly larger maximum passes", policy("0.3333333333333334", domain.ModeStrict), 1, 3, domain.PassWithWarning, false},
		{"empty batch is a clean pass", policy("0", domain.ModeStrict), 0, 0, domain.CleanPass, false},
		{"zero tolerance fails on one row", policy("0", domain.ModeStrict), 1, 1000, domain.FailStrict, true},
		{"full tolerance never breaches on rate", policy("1", domain.ModeStrict), 10, 10, domain.PassWithWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := services.NewThresholdGate(tt.policy).Evaluate(tt.rejected, tt.total)
			assert.Equal(t, tt.expected, res.Decision)
			assert.Equal(t, tt.breached, res.Breached)
			assert.Equal(t, tt.rejected, res.Rejected)
			assert.Equal(t, tt.total, res.Total)
		})
	}
}

func TestThresholdGate_RowCap(t *testing.T) {
	p := policy("1", domain.ModeStrict)
	p.MaxRejectRows = 2

	atCap := services.NewThresholdGate(p).Evaluate(2, 10)
	assert.Equal(t, domain.PassWithWarning, atCap.Decision)
	assert.False(t, atCap.RowsBreached)

	overCap := services.NewThresholdGate(p).Evaluate(3, 10)
	assert.Equal(t, domain.FailStrict, overCap.Decision)
	assert.True(t, overCap.RowsBreached)
	assert.False(t, overCap.RateBreached)
}

func TestThresholdGate_RowCapDisabledAtZero(t *testing.T) {
	p := policy("1", domain.ModeStrict)
	p.MaxRejectRows = 0

	res := services.NewThresholdGate(p).Evaluate(500, 1000)
	assert.False(t, res.RowsBreached)
	assert.Equal(t, domain.PassWithWarning, res.Decision)
}

func TestThresholdGate_Rate(t *testing.T) {
	res := services.NewThresholdGate(policy("0.05", domain.ModeLenient)).Evaluate(1, 4)
	assert.True(t, dec("0.25").Equal(res.RejectionRate))
}
