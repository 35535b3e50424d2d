package sweep_bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowtown/NT-BookingService/internal/domain"
	bookingRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	"github.com/nowtown/NT-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) ListExpiredPending(ctx context.Context, cutoff time.Time, limit uint64) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.Status == domain.StatusPending && b.CreatedAt.Before(cutoff) {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) ListFinishedConfirmed(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.Status == domain.StatusConfirmed && !b.EndAt.After(now) {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) CancelFrom(ctx context.Context, id int64, from domain.BookingStatus, actor domain.CancelActor, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != from {
		return bookingRepo.ErrStaleStatus
	}
	b.Status = domain.StatusCancelled
	b.CancelledBy = &actor
	b.CancellationReason = &reason
	return nil
}

func (f *fakeBookingRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != from {
		return bookingRepo.ErrStaleStatus
	}
	b.Status = to
	return nil
}

type fakeLedgerRepo struct{ released []int64 }

func (f *fakeLedgerRepo) Release(ctx context.Context, reservationID int64) error {
	f.released = append(f.released, reservationID)
	return nil
}

type fakePublisher struct{ events []string }

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, payload interface{}) {
	f.events = append(f.events, routingKey)
}

type env struct {
	uc        *UseCase
	bookings  *fakeBookingRepo
	ledger    *fakeLedgerRepo
	publisher *fakePublisher
	now       time.Time
}

func newEnv() *env {
	e := &env{
		bookings:  &fakeBookingRepo{bookings: map[int64]*domain.Booking{}},
		ledger:    &fakeLedgerRepo{},
		publisher: &fakePublisher{},
		now:       time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	e.uc = NewUseCase(e.bookings, e.ledger, e.publisher, fakeTxManager{}, 24*time.Hour, nopLogger{})
	e.uc.timeProvider = fixedTime{now: e.now}
	return e
}

func TestExecute_ExpiresStalePending(t *testing.T) {
	e := newEnv()
	e.bookings.bookings[1] = &domain.Booking{
		ID:            1,
		Status:        domain.StatusPending,
		CreatedAt:     e.now.Add(-25 * time.Hour),
		ReservationID: ptr.Ptr(int64(50)),
	}
	e.bookings.bookings[2] = &domain.Booking{
		ID:        2,
		Status:    domain.StatusPending,
		CreatedAt: e.now.Add(-1 * time.Hour),
	}

	result, err := e.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, domain.StatusCancelled, e.bookings.bookings[1].Status)
	require.NotNil(t, e.bookings.bookings[1].CancellationReason)
	assert.Equal(t, domain.CancelReasonExpired, *e.bookings.bookings[1].CancellationReason)
	require.NotNil(t, e.bookings.bookings[1].CancelledBy)
	assert.Equal(t, domain.ActorSystem, *e.bookings.bookings[1].CancelledBy)
	assert.Equal(t, []int64{50}, e.ledger.released)

	// Свежий pending не тронут
	assert.Equal(t, domain.StatusPending, e.bookings.bookings[2].Status)
	assert.Equal(t, []string{"booking.cancelled"}, e.publisher.events)
}

func TestExecute_CompletesFinishedConfirmed(t *testing.T) {
	e := newEnv()
	e.bookings.bookings[1] = &domain.Booking{
		ID:     1,
		Status: domain.StatusConfirmed,
		EndAt:  e.now.Add(-time.Hour),
	}
	e.bookings.bookings[2] = &domain.Booking{
		ID:     2,
		Status: domain.StatusConfirmed,
		EndAt:  e.now.Add(time.Hour),
	}

	result, err := e.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, domain.StatusCompleted, e.bookings.bookings[1].Status)
	assert.Equal(t, domain.StatusConfirmed, e.bookings.bookings[2].Status)
	assert.Equal(t, []string{"booking.completed"}, e.publisher.events)
}

func TestExecute_SecondPassIsNoop(t *testing.T) {
	e := newEnv()
	e.bookings.bookings[1] = &domain.Booking{
		ID:        1,
		Status:    domain.StatusPending,
		CreatedAt: e.now.Add(-48 * time.Hour),
	}
	e.bookings.bookings[2] = &domain.Booking{
		ID:     2,
		Status: domain.StatusConfirmed,
		EndAt:  e.now.Add(-time.Hour),
	}

	first, err := e.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Expired)
	assert.Equal(t, 1, first.Completed)

	second, err := e.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Expired)
	assert.Equal(t, 0, second.Completed)
}

func TestExecute_EmptyDatabase(t *testing.T) {
	e := newEnv()

	result, err := e.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Expired)
	assert.Equal(t, 0, result.Completed)
	assert.Empty(t, e.publisher.events)
}

func TestExecute_SkipsConcurrentlyMutatedBooking(t *testing.T) {
	e := newEnv()
	// Бронирование попадает в выборку, но к моменту CAS уже подтверждено
	b := &domain.Booking{
		ID:        1,
		Status:    domain.StatusConfirmed, // выборка фейка смотрит на живой статус
		CreatedAt: e.now.Add(-48 * time.Hour),
		EndAt:     e.now.Add(48 * time.Hour),
	}
	e.bookings.bookings[1] = b

	result, err := e.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Expired)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
}
