package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nowtown/NT-BookingService/pkg/money"
)

func TestEvaluateRefund_DefaultTiers(t *testing.T) {
	start := time.Date(2025, 10, 20, 18, 0, 0, 0, time.UTC)
	total := money.Amount(10000) // 100.00

	tests := []struct {
		name          string
		cancelledAt   time.Time
		wantPercent   int
		wantAmount    money.Amount
	}{
		{"30h before -> full refund", start.Add(-30 * time.Hour), 100, 10000},
		{"exactly 24h before -> full refund", start.Add(-24 * time.Hour), 100, 10000},
		{"14h before -> half refund", start.Add(-14 * time.Hour), 50, 5000},
		{"exactly 12h before -> half refund", start.Add(-12 * time.Hour), 50, 5000},
		{"2h before -> no refund", start.Add(-2 * time.Hour), 0, 0},
		{"after start -> no refund", start.Add(time.Hour), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := EvaluateRefund(nil, total, total, start, tt.cancelledAt)
			assert.Equal(t, tt.wantPercent, decision.Percent)
			assert.Equal(t, tt.wantAmount, decision.Amount)
		})
	}
}

func TestEvaluateRefund_MonotonicallyNonIncreasing(t *testing.T) {
	start := time.Date(2025, 10, 20, 18, 0, 0, 0, time.UTC)
	total := money.Amount(9999)

	prev := money.Amount(1 << 62)
	for hours := 48; hours >= 1; hours-- {
		cancelledAt := start.Add(-time.Duration(hours) * time.Hour)
		decision := EvaluateRefund(nil, total, total, start, cancelledAt)
		assert.LessOrEqual(t, decision.Amount, prev,
			"refund %d hours before start must not exceed refund further out", hours)
		prev = decision.Amount
	}
}

func TestEvaluateRefund_ClampedToCaptured(t *testing.T) {
	start := time.Date(2025, 10, 20, 18, 0, 0, 0, time.UTC)

	// Захвачено меньше, чем total (частичная оплата) - возврат не превышает захваченное
	decision := EvaluateRefund(nil, 10000, 3000, start, start.Add(-48*time.Hour))
	assert.Equal(t, 100, decision.Percent)
	assert.Equal(t, money.Amount(3000), decision.Amount)
}

func TestEvaluateRefund_ListingSpecificPolicy(t *testing.T) {
	start := time.Date(2025, 10, 20, 18, 0, 0, 0, time.UTC)
	policy := []PolicyTier{
		{HoursBefore: 72, RefundPercent: 100},
		{HoursBefore: 48, RefundPercent: 25},
		{HoursBefore: 0, RefundPercent: 0},
	}

	decision := EvaluateRefund(policy, 10000, 10000, start, start.Add(-80*time.Hour))
	assert.Equal(t, 100, decision.Percent)

	decision = EvaluateRefund(policy, 10000, 10000, start, start.Add(-50*time.Hour))
	assert.Equal(t, 25, decision.Percent)
	assert.Equal(t, money.Amount(2500), decision.Amount)

	decision = EvaluateRefund(policy, 10000, 10000, start, start.Add(-10*time.Hour))
	assert.Equal(t, 0, decision.Percent)
}

func TestEvaluateRefund_RoundHalfUp(t *testing.T) {
	start := time.Date(2025, 10, 20, 18, 0, 0, 0, time.UTC)

	// 50% от 99.99 = 49.995 -> 50.00 (round half up)
	decision := EvaluateRefund(nil, 9999, 9999, start, start.Add(-14*time.Hour))
	assert.Equal(t, money.Amount(5000), decision.Amount)
}
