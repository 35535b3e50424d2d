package domain

import "time"

// CapacityLedger tracks reserved vs. total units for one listing slot.
// Mutated only by the ledger repository under a serialized transaction;
// no other component writes to it.
type CapacityLedger struct {
	ID        int64
	ListingID int64
	SlotStart time.Time

	TotalUnits    int
	ReservedUnits int

	// Early-bird discounted units for event listings, zero when not offered
	EarlyBirdTotal int
	EarlyBirdUsed  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns the number of units still available in the slot
func (l *CapacityLedger) Remaining() int {
	return l.TotalUnits - l.ReservedUnits
}

// EarlyBirdRemaining returns the number of early-bird units still available
func (l *CapacityLedger) EarlyBirdRemaining() int {
	return l.EarlyBirdTotal - l.EarlyBirdUsed
}

// ReservationStatus is the state of a capacity reservation token
type ReservationStatus string

const (
	ReservationActive   ReservationStatus = "active"
	ReservationReleased ReservationStatus = "released"
)

// CapacityReservation is the reservation token handed out by a successful
// reserve call. Releasing an already-released reservation is a no-op.
type CapacityReservation struct {
	ID        int64
	ListingID int64
	SlotStart time.Time

	Quantity       int
	EarlyBirdUnits int

	Status     ReservationStatus
	CreatedAt  time.Time
	ReleasedAt *time.Time
}

// IsActive returns true if the reservation still holds capacity
func (r *CapacityReservation) IsActive() bool {
	return r.Status == ReservationActive
}
