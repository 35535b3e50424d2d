package domain

import "github.com/nowtown/NT-BookingService/pkg/money"

// PriceBreakdown is the result of pricing a booking request.
// All amounts are minor currency units; Total is always recomputed as
// Base + ServiceFee + Tax, never edited independently.
type PriceBreakdown struct {
	Base       money.Amount
	ServiceFee money.Amount
	Tax        money.Amount
	Total      money.Amount
	Currency   string

	// Units is the quantity or duration the base price was multiplied by
	Units int
	// EarlyBirdApplied reports whether the discounted early-bird unit price was used
	EarlyBirdApplied bool
}

// Consistent returns true if the breakdown satisfies the total invariant
func (p *PriceBreakdown) Consistent() bool {
	return p.Total == p.Base+p.ServiceFee+p.Tax
}
