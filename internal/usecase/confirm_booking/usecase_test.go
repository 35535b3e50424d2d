package confirm_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowtown/NT-BookingService/internal/domain"
	bookingRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	ledgerRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/ledger"
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

// retryingTxManager прогоняет fn дважды, как это делает настоящий менеджер
// при serialization_failure: результат первой попытки отбрасывается
type retryingTxManager struct{}

func (retryingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

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

func (f *fakeBookingRepo) SetPayment(ctx context.Context, id int64, paymentID string, status domain.PaymentStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentID = &paymentID
	b.PaymentStatus = status
	return nil
}

type fakeLedgerRepo struct {
	reservations map[int64]*domain.CapacityReservation
}

func (f *fakeLedgerRepo) GetReservation(ctx context.Context, id int64) (*domain.CapacityReservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, ledgerRepo.ErrReservationNotFound
	}
	return r, nil
}

type fakePaymentClient struct {
	declined bool
	captures int
	keys     []string
}

func (f *fakePaymentClient) CapturePayment(ctx context.Context, req *paymentservice.CaptureRequest) (*paymentservice.CaptureResult, error) {
	f.captures++
	f.keys = append(f.keys, req.IdempotencyKey)
	if f.declined {
		return nil, paymentservice.ErrPaymentDeclined
	}
	return &paymentservice.CaptureResult{PaymentID: fmt.Sprintf("pay-%d", req.BookingID), Status: "captured"}, nil
}

type fakeIssuer struct{ code string }

func (f *fakeIssuer) Issue(ctx context.Context, bookingID int64) (string, error) {
	return f.code, nil
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
}

func newEnv() *env {
	e := &env{
		bookings:  &fakeBookingRepo{bookings: map[int64]*domain.Booking{}},
		ledger:    &fakeLedgerRepo{reservations: map[int64]*domain.CapacityReservation{}},
		payments:  &fakePaymentClient{},
		publisher: &fakePublisher{},
	}
	e.uc = NewUseCase(
		e.bookings,
		e.ledger,
		e.payments,
		&fakeIssuer{code: "NW-ABCDEFGH-K"},
		e.publisher,
		fakeTxManager{},
		nopLogger{},
	)
	return e
}

func (e *env) addPendingBooking() *domain.Booking {
	e.ledger.reservations[50] = &domain.CapacityReservation{ID: 50, Status: domain.ReservationActive}
	b := &domain.Booking{
		ID:            1,
		ListingID:     10,
		CustomerID:    100,
		HostID:        200,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
		TotalAmount:   13090,
		Currency:      "EUR",
		ReservationID: ptr.Ptr(int64(50)),
		StartAt:       time.Date(2026, 9, 3, 12, 0, 0, 0, time.UTC),
	}
	e.bookings.bookings[1] = b
	return b
}

func TestExecute_ConfirmsPendingBooking(t *testing.T) {
	e := newEnv()
	e.addPendingBooking()

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HostID: 200, PaymentMethod: "card"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	require.NotNil(t, resp.ConfirmationNumber)
	assert.Equal(t, "NW-ABCDEFGH-K", *resp.ConfirmationNumber)
	assert.Equal(t, 1, e.payments.captures)
	// Ключ идемпотентности детерминирован по бронированию: повтор захвата
	// с тем же ключом провайдер не спишет второй раз
	assert.Equal(t, []string{"booking-1-capture"}, e.payments.keys)
	assert.Equal(t, []string{"booking.confirmed"}, e.publisher.events)

	assert.Equal(t, domain.StatusConfirmed, e.bookings.bookings[1].Status)
}

func TestExecute_RetriedTransactionReusesCaptureKey(t *testing.T) {
	e := newEnv()
	e.addPendingBooking()
	e.uc.txManager = retryingTxManager{}

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HostID: 200, PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	// Каждая попытка транзакции захватывает с тем же ключом
	for _, key := range e.payments.keys {
		assert.Equal(t, "booking-1-capture", key)
	}
}

func TestExecute_IdempotentReconfirm(t *testing.T) {
	e := newEnv()
	b := e.addPendingBooking()
	b.Status = domain.StatusConfirmed
	b.PaymentStatus = domain.PaymentPaid
	b.ConfirmationNumber = ptr.Ptr("NW-EXISTING9-M")

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HostID: 200})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.NotNil(t, resp.ConfirmationNumber)
	assert.Equal(t, "NW-EXISTING9-M", *resp.ConfirmationNumber)
	// Платеж не захватывается повторно
	assert.Equal(t, 0, e.payments.captures)
}

func TestExecute_CancelledBookingIsStale(t *testing.T) {
	e := newEnv()
	b := e.addPendingBooking()
	b.Status = domain.StatusCancelled

	_, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HostID: 200})
	assert.ErrorIs(t, err, ErrStaleStatus)
}

func TestExecute_CapacityLostCancelsBooking(t *testing.T) {
	e := newEnv()
	e.addPendingBooking()
	e.ledger.reservations[50].Status = domain.ReservationReleased

	_, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HostID: 200})
	assert.ErrorIs(t, err, ErrCapacityLost)

	assert.Equal(t, domain.StatusCancelled, e.bookings.bookings[1].Status)
	require.NotNil(t, e.bookings.bookings[1].CancellationReason)
	assert.Equal(t, domain.CancelReasonCapacityLost, *e.bookings.bookings[1].CancellationReason)
	assert.Equal(t, []string{"booking.cancelled"}, e.publisher.events)
	assert.Equal(t, 0, e.payments.captures)
}

func TestExecute_PaymentDeclinedKeepsPending(t *testing.T) {
	e := newEnv()
	e.addPendingBooking()
	e.payments.declined = true

	_, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HostID: 200})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, domain.StatusPending, e.bookings.bookings[1].Status)
	assert.Empty(t, e.publisher.events)
}

func TestExecute_WrongHostDenied(t *testing.T) {
	e := newEnv()
	e.addPendingBooking()

	_, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HostID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{BookingID: 42, HostID: 200})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_AlreadyPaidSkipsCapture(t *testing.T) {
	e := newEnv()
	b := e.addPendingBooking()
	b.PaymentStatus = domain.PaymentPaid
	b.PaymentID = ptr.Ptr("pay-1")

	resp, err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HostID: 200})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 0, e.payments.captures)
}
