package domain

import (
	"sort"
	"time"

	"github.com/nowtown/NT-BookingService/pkg/money"
)

// PolicyTier is one step of a tiered cancellation policy: cancelling at
// least HoursBefore hours before the booking start refunds RefundPercent
type PolicyTier struct {
	HoursBefore   int
	RefundPercent int // 0-100
}

// DefaultCancellationPolicy is applied when a listing carries no policy of
// its own. The exact thresholds are product configuration, not law.
var DefaultCancellationPolicy = []PolicyTier{
	{HoursBefore: 24, RefundPercent: 100},
	{HoursBefore: 12, RefundPercent: 50},
	{HoursBefore: 0, RefundPercent: 0},
}

// RefundDecision is the outcome of evaluating a cancellation against the policy
type RefundDecision struct {
	Percent int
	Amount  money.Amount
}

// EvaluateRefund computes the refund for cancelling at cancelledAt a booking
// that starts at startAt, given the listing's tiered policy.
//
// The refund amount is round-half-up of total * percent and is clamped to
// capturedAmount so a refund can never exceed what was actually paid.
// An empty policy falls back to DefaultCancellationPolicy.
func EvaluateRefund(policy []PolicyTier, total, capturedAmount money.Amount, startAt, cancelledAt time.Time) RefundDecision {
	if len(policy) == 0 {
		policy = DefaultCancellationPolicy
	}

	// Most generous tiers first
	tiers := make([]PolicyTier, len(policy))
	copy(tiers, policy)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].HoursBefore > tiers[j].HoursBefore
	})

	percent := 0
	for _, tier := range tiers {
		deadline := startAt.Add(-time.Duration(tier.HoursBefore) * time.Hour)
		if !cancelledAt.After(deadline) {
			percent = tier.RefundPercent
			break
		}
	}

	amount := money.ApplyRate(total, money.BasisPoints(percent*100))
	amount = money.Min(amount, capturedAmount)

	return RefundDecision{Percent: percent, Amount: amount}
}
