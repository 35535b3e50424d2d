package domain

import "time"

// DefaultPendingWindow is how long a pending booking waits for host
// confirmation before the sweep auto-cancels it; overridable via config
const DefaultPendingWindow = 24 * time.Hour

// Business validation constants
const (
	MaxBookingQuantity          = 100
	MaxCancellationReasonLength = 500
	MinSpaceBookingHours        = 1
)
