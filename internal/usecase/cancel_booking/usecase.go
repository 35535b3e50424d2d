package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	bookingRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	listingClient "github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/internal/integrations/paymentservice"
	"github.com/nowtown/NT-BookingService/internal/notifications"
	"github.com/nowtown/NT-BookingService/pkg/money"
)

// UseCase use case отмены бронирования клиентом или хостом
type UseCase struct {
	bookingRepo   BookingRepository
	ledgerRepo    LedgerRepository
	listingClient ListingServiceClient
	paymentClient PaymentServiceClient
	publisher     EventPublisher
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	listingClient ListingServiceClient,
	paymentClient PaymentServiceClient,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		ledgerRepo:    ledgerRepo,
		listingClient: listingClient,
		paymentClient: paymentClient,
		publisher:     publisher,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет отмену бронирования
//
// Переход в cancelled и освобождение резерва мест выполняются в одной
// serializable-транзакции. Размер возврата считается тарифной политикой
// объявления от момента отмены; отмена хостом возвращает захваченную сумму
// полностью независимо от политики.
//
// Возврат средств выполняется после коммита: отмена необратима, и отказ
// провайдера не воскрешает бронирование - такой возврат логируется
// и уходит в событие booking.refund_failed для ручного разбора
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, requester=%d", req.BookingID, req.RequesterID)

	if req.BookingID <= 0 || req.RequesterID <= 0 {
		return nil, fmt.Errorf("%w: booking_id and requester_id must be positive", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	now := uc.timeProvider.Now()

	var cancelled *domain.Booking
	var actor domain.CancelActor
	var decision domain.RefundDecision

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		actor, err = resolveActor(booking, req.RequesterID)
		if err != nil {
			uc.logger.Warn("CancelBooking: user %d denied access to booking %d", req.RequesterID, req.BookingID)
			return err
		}

		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d has status %s", booking.ID, booking.Status)
			return ErrStaleStatus
		}

		decision, err = uc.evaluateRefund(txCtx, booking, actor, now)
		if err != nil {
			return err
		}

		if err := uc.bookingRepo.CancelFrom(txCtx, booking.ID, booking.Status, actor, req.Reason); err != nil {
			if errors.Is(err, bookingRepo.ErrStaleStatus) {
				return ErrStaleStatus
			}
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		if booking.ReservationID != nil {
			if err := uc.ledgerRepo.Release(txCtx, *booking.ReservationID); err != nil {
				uc.logger.Error("CancelBooking: failed to release reservation id=%d: %v", *booking.ReservationID, err)
				return fmt.Errorf("%w: failed to release reservation: %v", ErrInternal, err)
			}
		}

		cancelled = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled by %s, refund %d%% (%s %s)",
		cancelled.ID, actor, decision.Percent, decision.Amount, cancelled.Currency)

	refundFailed := uc.refundIfNeeded(ctx, cancelled, decision)

	occurredAt := uc.timeProvider.Now().Format(time.RFC3339)
	uc.publisher.Publish(ctx, notifications.EventBookingCancelled, notifications.BookingEvent{
		BookingID:  cancelled.ID,
		ListingID:  cancelled.ListingID,
		CustomerID: cancelled.CustomerID,
		HostID:     cancelled.HostID,
		Status:     string(domain.StatusCancelled),
		OccurredAt: occurredAt,
	})

	return toResponse(cancelled, decision, actor, refundFailed, now), nil
}

// resolveActor определяет, от чьего имени выполняется отмена
func resolveActor(booking *domain.Booking, requesterID int64) (domain.CancelActor, error) {
	switch requesterID {
	case booking.CustomerID:
		return domain.ActorCustomer, nil
	case booking.HostID:
		return domain.ActorHost, nil
	default:
		return "", ErrAccessDenied
	}
}

// evaluateRefund считает возврат по тарифной политике объявления
// Отмена хостом не наказывает клиента: захваченная сумма возвращается полностью
func (uc *UseCase) evaluateRefund(ctx context.Context, booking *domain.Booking, actor domain.CancelActor, now time.Time) (domain.RefundDecision, error) {
	captured := money.Amount(0)
	if booking.IsPaid() {
		captured = booking.TotalAmount
	}

	if actor == domain.ActorHost {
		return domain.RefundDecision{Percent: 100, Amount: captured}, nil
	}

	listing, err := uc.listingClient.GetListing(ctx, booking.ListingID)
	if err != nil {
		if errors.Is(err, listingClient.ErrListingNotFound) {
			// Объявление могло быть удалено после создания бронирования;
			// в этом случае действует дефолтная политика
			uc.logger.Warn("CancelBooking: listing id=%d not found, using default policy", booking.ListingID)
			return domain.EvaluateRefund(nil, booking.TotalAmount, captured, booking.StartAt, now), nil
		}
		uc.logger.Error("CancelBooking: failed to get listing id=%d: %v", booking.ListingID, err)
		return domain.RefundDecision{}, fmt.Errorf("%w: failed to get listing: %v", ErrInternal, err)
	}

	return domain.EvaluateRefund(listing.DomainPolicy(), booking.TotalAmount, captured, booking.StartAt, now), nil
}

// refundIfNeeded выполняет возврат средств после коммита отмены
// Возвращает true, если возврат не удался
func (uc *UseCase) refundIfNeeded(ctx context.Context, booking *domain.Booking, decision domain.RefundDecision) bool {
	if decision.Amount <= 0 || !booking.IsPaid() || booking.PaymentID == nil {
		return false
	}

	// Ключ детерминирован по бронированию: повторная доставка запроса
	// не удвоит возврат
	_, err := uc.paymentClient.Refund(ctx, &paymentservice.RefundRequest{
		PaymentID:      *booking.PaymentID,
		Amount:         int64(decision.Amount),
		IdempotencyKey: fmt.Sprintf("booking-%d-refund", booking.ID),
	})
	if err != nil {
		uc.logger.Error("CancelBooking: refund failed for booking id=%d, payment=%s, amount=%d: %v",
			booking.ID, *booking.PaymentID, decision.Amount, err)
		uc.publisher.Publish(ctx, notifications.EventBookingRefundFailed, notifications.BookingEvent{
			BookingID:  booking.ID,
			ListingID:  booking.ListingID,
			CustomerID: booking.CustomerID,
			HostID:     booking.HostID,
			Status:     string(domain.StatusCancelled),
			OccurredAt: uc.timeProvider.Now().Format(time.RFC3339),
		})
		return true
	}

	status := domain.PaymentPartiallyRefunded
	if decision.Amount >= booking.TotalAmount {
		status = domain.PaymentRefunded
	}

	if err := uc.bookingRepo.SetPaymentStatus(ctx, booking.ID, status); err != nil {
		uc.logger.Error("CancelBooking: failed to set payment status for booking id=%d: %v", booking.ID, err)
		return false
	}
	booking.PaymentStatus = status

	return false
}
