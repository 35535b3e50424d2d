package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Table(t *testing.T) {
	statuses := []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

	allowed := map[[2]BookingStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}: true,
		{StatusConfirmed, StatusCompleted}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			got := CanTransition(from, to)
			want := allowed[[2]BookingStatus{from, to}]
			assert.Equal(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_TerminalStatesSealed(t *testing.T) {
	// completed -> confirmed is the classic illegal resurrection
	assert.False(t, CanTransition(StatusCompleted, StatusConfirmed))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusConfirmed))

	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestBooking_PendingExpired(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	b := &Booking{Status: StatusPending, CreatedAt: now.Add(-25 * time.Hour)}
	assert.True(t, b.PendingExpired(now, DefaultPendingWindow))

	b.CreatedAt = now.Add(-23 * time.Hour)
	assert.False(t, b.PendingExpired(now, DefaultPendingWindow))

	// Только pending-бронирования истекают
	b.Status = StatusConfirmed
	b.CreatedAt = now.Add(-48 * time.Hour)
	assert.False(t, b.PendingExpired(now, DefaultPendingWindow))
}

func TestBooking_Finished(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	b := &Booking{Status: StatusConfirmed, EndAt: now.Add(-time.Minute)}
	assert.True(t, b.Finished(now))

	b.EndAt = now.Add(time.Minute)
	assert.False(t, b.Finished(now))

	b.Status = StatusPending
	b.EndAt = now.Add(-time.Hour)
	assert.False(t, b.Finished(now))
}
