package domain

import (
	"time"

	"github.com/nowtown/NT-BookingService/pkg/money"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentUnpaid            PaymentStatus = "unpaid"
	PaymentPaid              PaymentStatus = "paid"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

// CancelActor identifies who triggered a cancellation
type CancelActor string

const (
	ActorCustomer CancelActor = "customer"
	ActorHost     CancelActor = "host"
	ActorSystem   CancelActor = "system"
)

// CancelReasonCapacityLost is recorded when a pending booking loses its
// capacity reservation before the host confirms it
const CancelReasonCapacityLost = "capacity_lost"

// CancelReasonPaymentDeclined is recorded when an instant booking is cancelled
// because payment capture was declined and the listing policy demands cancellation
const CancelReasonPaymentDeclined = "payment_declined"

// CancelReasonExpired is recorded when a pending booking is auto-cancelled
// after the pending window passes with no host response
const CancelReasonExpired = "pending_window_expired"

// Booking represents one reservation of a listing by one customer
type Booking struct {
	ID          int64
	ListingID   int64
	ListingType ListingType
	CustomerID  int64
	HostID      int64 // denormalized from the listing for host-side queries

	Status        BookingStatus
	PaymentStatus PaymentStatus

	StartAt  time.Time
	EndAt    time.Time
	Quantity int

	// Price breakdown snapshot, minor currency units.
	// Invariant: TotalAmount == BaseAmount + ServiceFee + TaxAmount.
	BaseAmount  money.Amount
	ServiceFee  money.Amount
	TaxAmount   money.Amount
	TotalAmount money.Amount
	Currency    string

	ConfirmationNumber *string
	ReservationID      *int64
	PaymentID          *string

	CancellationReason *string
	CancelledBy        *CancelActor
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// transitions is the table of legal status transitions.
// Cancelled and completed are terminal: no entry means no way out.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransition returns true if moving from one status to another is legal
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status permits no further transitions
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsValidStatus returns true if the value is a known booking status
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsActive returns true if the booking still holds its capacity reservation
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, StatusCancelled)
}

// IsPaid returns true if a payment has been captured and not fully refunded
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid || b.PaymentStatus == PaymentPartiallyRefunded
}

// PendingExpired returns true if a pending booking has outlived the pending window
func (b *Booking) PendingExpired(now time.Time, window time.Duration) bool {
	return b.Status == StatusPending && now.Sub(b.CreatedAt) >= window
}

// Finished returns true if a confirmed booking's end datetime has passed
func (b *Booking) Finished(now time.Time) bool {
	return b.Status == StatusConfirmed && !b.EndAt.After(now)
}

// CustomerBookingsFilter filters a customer's booking history
type CustomerBookingsFilter struct {
	CustomerID int64
	Status     *BookingStatus
}

// HostBookingsFilter filters bookings across a host's listings
type HostBookingsFilter struct {
	HostID    int64
	ListingID *int64
	StartFrom *time.Time
	StartTo   *time.Time
	Status    *BookingStatus
}
