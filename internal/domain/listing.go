package domain

// ListingType discriminates the three bookable offering variants
type ListingType string

const (
	ListingEvent   ListingType = "event"
	ListingSpace   ListingType = "space"
	ListingService ListingType = "service"
)

// PricingUnit is the unit the listing's base price is quoted in
type PricingUnit string

const (
	UnitPerTicket  PricingUnit = "per_ticket"
	UnitPerHour    PricingUnit = "per_hour"
	UnitPerDay     PricingUnit = "per_day"
	UnitPerSession PricingUnit = "per_session"
)

// PaymentFailurePolicy controls what happens to a booking when payment
// capture is declined during an instant-booking checkout
type PaymentFailurePolicy string

const (
	// PaymentFailureKeepPending keeps the booking pending so the customer can retry
	PaymentFailureKeepPending PaymentFailurePolicy = "keep_pending"
	// PaymentFailureCancel cancels the booking and releases its capacity
	PaymentFailureCancel PaymentFailurePolicy = "cancel"
)

// HostPlan is the host's subscription plan, which determines the service fee rate
type HostPlan string

const (
	PlanStandard HostPlan = "standard"
	PlanPlus     HostPlan = "plus"
	PlanPro      HostPlan = "pro"
)
