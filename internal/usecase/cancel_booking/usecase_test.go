package cancel_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowtown/NT-BookingService/internal/domain"
	bookingRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	"github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/internal/integrations/paymentservice"
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

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
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

func (f *fakeBookingRepo) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentStatus = status
	return nil
}

type fakeLedgerRepo struct {
	released []int64
}

func (f *fakeLedgerRepo) Release(ctx context.Context, reservationID int64) error {
	f.released = append(f.released, reservationID)
	return nil
}

type fakeListingClient struct{ listing *listingservice.Listing }

func (f *fakeListingClient) GetListing(ctx context.Context, listingID int64) (*listingservice.Listing, error) {
	if f.listing == nil {
		return nil, listingservice.ErrListingNotFound
	}
	return f.listing, nil
}

type fakePaymentClient struct {
	fail    bool
	refunds []paymentservice.RefundRequest
}

func (f *fakePaymentClient) Refund(ctx context.Context, req *paymentservice.RefundRequest) (*paymentservice.RefundResult, error) {
	if f.fail {
		return nil, errors.New("provider unavailable")
	}
	f.refunds = append(f.refunds, *req)
	return &paymentservice.RefundResult{RefundID: "ref-1", Status: "refunded"}, nil
}

type fakePublisher struct{ events []string }

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, payload interface{}) {
	f.events = append(f.events, routingKey)
}

type env struct {
	uc        *UseCase
	bookings  *fakeBookingRepo
	ledger    *fakeLedgerRepo
	payments  *fakePaymentClient
	publisher *fakePublisher
	now       time.Time
}

// newEnv готовит подтвержденное оплаченное бронирование на 100.00 EUR
// с дефолтной политикой отмены (100% за 24ч, 50% за 12ч, 0% позже)
func newEnv(hoursBeforeStart int) *env {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	e := &env{
		bookings:  &fakeBookingRepo{bookings: map[int64]*domain.Booking{}},
		ledger:    &fakeLedgerRepo{},
		payments:  &fakePaymentClient{},
		publisher: &fakePublisher{},
		now:       now,
	}
	e.bookings.bookings[1] = &domain.Booking{
		ID:            1,
		ListingID:     10,
		CustomerID:    100,
		HostID:        200,
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentPaid,
		TotalAmount:   10000,
		Currency:      "EUR",
		PaymentID:     ptr.Ptr("pay-1"),
		ReservationID: ptr.Ptr(int64(50)),
		StartAt:       now.Add(time.Duration(hoursBeforeStart) * time.Hour),
	}
	e.uc = NewUseCase(
		e.bookings,
		e.ledger,
		&fakeListingClient{listing: &listingservice.Listing{ID: 10, HostID: 200}},
		e.payments,
		e.publisher,
		fakeTxManager{},
		nopLogger{},
	)
	e.uc.timeProvider = fixedTime{now: now}
	return e
}

func TestExecute_FullRefund30HoursBefore(t *testing.T) {
	e := newEnv(30)

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 100, Reason: "plans changed"})
	require.NoError(t, err)

	assert.Equal(t, 100, resp.RefundPercent)
	assert.Equal(t, int64(10000), resp.RefundAmount)
	assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)
	require.Len(t, e.payments.refunds, 1)
	assert.Equal(t, int64(10000), e.payments.refunds[0].Amount)
	assert.Equal(t, "booking-1-refund", e.payments.refunds[0].IdempotencyKey)
	assert.Equal(t, []int64{50}, e.ledger.released)
	assert.Equal(t, []string{"booking.cancelled"}, e.publisher.events)
}

func TestExecute_HalfRefund14HoursBefore(t *testing.T) {
	e := newEnv(14)

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 100})
	require.NoError(t, err)

	assert.Equal(t, 50, resp.RefundPercent)
	assert.Equal(t, int64(5000), resp.RefundAmount)
	assert.Equal(t, string(domain.PaymentPartiallyRefunded), resp.PaymentStatus)
}

func TestExecute_NoRefund2HoursBefore(t *testing.T) {
	e := newEnv(2)

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 100})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.RefundPercent)
	assert.Equal(t, int64(0), resp.RefundAmount)
	assert.Empty(t, e.payments.refunds)
	// Отмена и освобождение мест выполняются независимо от размера возврата
	assert.Equal(t, domain.StatusCancelled, e.bookings.bookings[1].Status)
	assert.Equal(t, []int64{50}, e.ledger.released)
}

func TestExecute_HostCancelRefundsFully(t *testing.T) {
	// Хост отменяет за 2 часа до начала: политика клиента не применяется
	e := newEnv(2)

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 200, Reason: "venue unavailable"})
	require.NoError(t, err)

	assert.Equal(t, "host", resp.CancelledBy)
	assert.Equal(t, 100, resp.RefundPercent)
	assert.Equal(t, int64(10000), resp.RefundAmount)
}

func TestExecute_UnpaidBookingNoRefundCall(t *testing.T) {
	e := newEnv(30)
	e.bookings.bookings[1].Status = domain.StatusPending
	e.bookings.bookings[1].PaymentStatus = domain.PaymentUnpaid
	e.bookings.bookings[1].PaymentID = nil

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 100})
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.RefundAmount)
	assert.Empty(t, e.payments.refunds)
	assert.Equal(t, domain.StatusCancelled, e.bookings.bookings[1].Status)
}

func TestExecute_RefundFailureKeepsBookingCancelled(t *testing.T) {
	e := newEnv(30)
	e.payments.fail = true

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 100})
	require.NoError(t, err)

	assert.True(t, resp.RefundFailed)
	assert.Equal(t, domain.StatusCancelled, e.bookings.bookings[1].Status)
	assert.Contains(t, e.publisher.events, "booking.refund_failed")
	assert.Contains(t, e.publisher.events, "booking.cancelled")
}

func TestExecute_TerminalStatusesRejected(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			e := newEnv(30)
			e.bookings.bookings[1].Status = status

			_, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 100})
			assert.ErrorIs(t, err, ErrStaleStatus)
		})
	}
}

func TestExecute_StrangerDenied(t *testing.T) {
	e := newEnv(30)

	_, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv(30)

	_, err := e.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 100})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ReasonTooLong(t *testing.T) {
	e := newEnv(30)

	long := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, RequesterID: 100, Reason: string(long)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
