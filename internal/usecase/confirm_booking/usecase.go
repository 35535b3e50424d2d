package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	bookingRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	ledgerRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/ledger"
	"github.com/nowtown/NT-BookingService/internal/integrations/paymentservice"
	"github.com/nowtown/NT-BookingService/internal/notifications"
)

// UseCase use case подтверждения бронирования хостом
type UseCase struct {
	bookingRepo   BookingRepository
	ledgerRepo    LedgerRepository
	paymentClient PaymentServiceClient
	confirmations ConfirmationIssuer
	publisher     EventPublisher
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	paymentClient PaymentServiceClient,
	confirmations ConfirmationIssuer,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		ledgerRepo:    ledgerRepo,
		paymentClient: paymentClient,
		confirmations: confirmations,
		publisher:     publisher,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет подтверждение pending-бронирования хостом
//
// Переход pending -> confirmed выполняется CAS-обновлением под FOR UPDATE:
// конкурирующая отмена или фоновый проход, успевшие раньше, дают ErrStaleStatus
// вместо молчаливой перезаписи. Повторное подтверждение уже подтвержденного
// бронирования идемпотентно и возвращает существующий номер подтверждения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: booking=%d, host=%d", req.BookingID, req.HostID)

	if req.BookingID <= 0 || req.HostID <= 0 {
		return nil, fmt.Errorf("%w: booking_id and host_id must be positive", ErrInvalidInput)
	}

	var result *domain.Booking
	var capacityLost bool

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("ConfirmBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.HostID != req.HostID {
			uc.logger.Warn("ConfirmBooking: host %d denied access to booking %d", req.HostID, req.BookingID)
			return ErrAccessDenied
		}

		// Идемпотентность: уже подтвержденное бронирование возвращается как есть
		if booking.Status == domain.StatusConfirmed {
			uc.logger.Info("ConfirmBooking: booking id=%d already confirmed, number=%v", booking.ID, booking.ConfirmationNumber)
			result = booking
			return nil
		}

		if booking.Status != domain.StatusPending {
			uc.logger.Warn("ConfirmBooking: booking id=%d has status %s", booking.ID, booking.Status)
			return ErrStaleStatus
		}

		// Резерв мест должен быть еще жив: просроченное бронирование могло
		// потерять его до подтверждения
		alive, err := uc.checkReservationAlive(txCtx, booking)
		if err != nil {
			return err
		}
		if !alive {
			// Отмена должна закоммититься, поэтому из транзакции возвращается nil,
			// а ErrCapacityLost отдается уже после коммита
			if err := uc.cancelCapacityLost(txCtx, booking); err != nil {
				return err
			}
			capacityLost = true
			result = booking
			return nil
		}

		// Захват платежа, если он еще не выполнен (instant-платеж мог пройти при создании)
		if !booking.IsPaid() {
			if err := uc.capturePayment(txCtx, booking, req.PaymentMethod); err != nil {
				return err
			}
		}

		if err := uc.bookingRepo.UpdateStatusFrom(txCtx, booking.ID, domain.StatusPending, domain.StatusConfirmed); err != nil {
			if errors.Is(err, bookingRepo.ErrStaleStatus) {
				return ErrStaleStatus
			}
			uc.logger.Error("ConfirmBooking: failed to update status for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		number, err := uc.confirmations.Issue(txCtx, booking.ID)
		if err != nil {
			uc.logger.Error("ConfirmBooking: failed to issue confirmation number for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to issue confirmation number: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusConfirmed
		booking.ConfirmationNumber = &number
		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	occurredAt := uc.timeProvider.Now().Format(time.RFC3339)

	if capacityLost {
		uc.publisher.Publish(ctx, notifications.EventBookingCancelled, notifications.BookingEvent{
			BookingID:  result.ID,
			ListingID:  result.ListingID,
			CustomerID: result.CustomerID,
			HostID:     result.HostID,
			Status:     string(domain.StatusCancelled),
			OccurredAt: occurredAt,
		})
		return nil, ErrCapacityLost
	}

	uc.logger.Info("ConfirmBooking: booking id=%d confirmed, number=%v", result.ID, result.ConfirmationNumber)

	uc.publisher.Publish(ctx, notifications.EventBookingConfirmed, notifications.BookingEvent{
		BookingID:  result.ID,
		ListingID:  result.ListingID,
		CustomerID: result.CustomerID,
		HostID:     result.HostID,
		Status:     string(result.Status),
		OccurredAt: occurredAt,
	})

	return toResponse(result), nil
}

// checkReservationAlive сообщает, активен ли еще резерв мест бронирования
func (uc *UseCase) checkReservationAlive(txCtx context.Context, booking *domain.Booking) (bool, error) {
	if booking.ReservationID == nil {
		uc.logger.Warn("ConfirmBooking: booking id=%d has no reservation", booking.ID)
		return false, nil
	}

	reservation, err := uc.ledgerRepo.GetReservation(txCtx, *booking.ReservationID)
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrReservationNotFound) {
			return false, nil
		}
		uc.logger.Error("ConfirmBooking: failed to get reservation id=%d: %v", *booking.ReservationID, err)
		return false, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	return reservation.IsActive(), nil
}

// cancelCapacityLost отменяет бронирование, оставшееся без резерва мест
// Подтверждать такое бронирование нечем: резерв уже освобожден
func (uc *UseCase) cancelCapacityLost(txCtx context.Context, booking *domain.Booking) error {
	uc.logger.Warn("ConfirmBooking: capacity lost for booking id=%d, cancelling", booking.ID)

	err := uc.bookingRepo.CancelFrom(txCtx, booking.ID, domain.StatusPending, domain.ActorSystem, domain.CancelReasonCapacityLost)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStaleStatus) {
			return ErrStaleStatus
		}
		uc.logger.Error("ConfirmBooking: failed to cancel booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	return nil
}

// capturePayment захватывает платеж перед подтверждением
//
// Ключ идемпотентности детерминирован по бронированию: повтор
// serializable-транзакции или конкурирующее подтверждение того же
// бронирования не спишут деньги второй раз - провайдер вернет
// результат первого захвата
func (uc *UseCase) capturePayment(txCtx context.Context, booking *domain.Booking, method string) error {
	capture, err := uc.paymentClient.CapturePayment(txCtx, &paymentservice.CaptureRequest{
		CustomerID:     booking.CustomerID,
		BookingID:      booking.ID,
		Amount:         int64(booking.TotalAmount),
		Currency:       booking.Currency,
		Method:         method,
		IdempotencyKey: fmt.Sprintf("booking-%d-capture", booking.ID),
	})
	if err != nil {
		if errors.Is(err, paymentservice.ErrPaymentDeclined) {
			uc.logger.Warn("ConfirmBooking: payment declined for booking id=%d, booking stays pending", booking.ID)
			return ErrPaymentDeclined
		}
		uc.logger.Error("ConfirmBooking: payment capture failed for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: payment capture failed: %v", ErrInternal, err)
	}

	if err := uc.bookingRepo.SetPayment(txCtx, booking.ID, capture.PaymentID, domain.PaymentPaid); err != nil {
		uc.logger.Error("ConfirmBooking: failed to record payment for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to record payment: %v", ErrInternal, err)
	}

	booking.PaymentStatus = domain.PaymentPaid
	booking.PaymentID = &capture.PaymentID

	return nil
}
