package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	ledgerRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/ledger"
	listingClient "github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/internal/integrations/paymentservice"
	"github.com/nowtown/NT-BookingService/internal/notifications"
	"github.com/nowtown/NT-BookingService/internal/service/pricing"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	ledgerRepo    LedgerRepository
	listingClient ListingServiceClient
	paymentClient PaymentServiceClient
	pricer        Pricer
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
	listingClient ListingServiceClient,
	paymentClient PaymentServiceClient,
	pricer Pricer,
	confirmations ConfirmationIssuer,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		ledgerRepo:    ledgerRepo,
		listingClient: listingClient,
		paymentClient: paymentClient,
		pricer:        pricer,
		confirmations: confirmations,
		publisher:     publisher,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Резервирование мест, расчет цены и создание бронирования выполняются
// в одной serializable-транзакции: проверка остатка и запись резерва
// атомарны, двум конкурирующим запросам на последнее место один получит
// ErrSoldOut. Решение о применении early-bird скидки принимается под той же
// блокировкой строки ledger, поэтому цена и списание квоты не расходятся
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, listing=%d, start=%s, quantity=%d",
		req.CustomerID, req.ListingID, req.StartAt.Format(time.RFC3339), req.Quantity)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateStartInFuture(req.StartAt, now); err != nil {
		uc.logger.Warn("CreateBooking: start time %s is in the past", req.StartAt.Format(time.RFC3339))
		return nil, err
	}

	// 2. Получаем объявление
	listing, err := uc.listingClient.GetListing(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, listingClient.ErrListingNotFound) {
			uc.logger.Warn("CreateBooking: listing id=%d not found", req.ListingID)
			return nil, ErrListingNotFound
		}
		uc.logger.Error("CreateBooking: failed to get listing id=%d: %v", req.ListingID, err)
		return nil, fmt.Errorf("%w: failed to get listing: %v", ErrInternal, err)
	}

	totalUnits := 0
	if listing.Capacity != nil {
		totalUnits = *listing.Capacity
	}
	earlyBirdTotal := 0
	if listing.EarlyBirdPrice != nil {
		earlyBirdTotal = listing.EarlyBirdQuota
	}

	var result *domain.Booking
	var earlyBirdApplied bool
	var paymentDeclined bool
	var cancelledOnDecline bool

	// Ключ идемпотентности генерируется до транзакции: при повторе
	// serializable-транзакции (40001) захват уходит провайдеру с тем же
	// ключом, и деньги не списываются второй раз
	idempotencyKey := paymentservice.NewIdempotencyKey()

	// 3. Резервирование, расчет цены и создание бронирования - атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Запись ledger для слота (создается лениво при первом запросе)
		if err := uc.ledgerRepo.EnsureSlot(txCtx, listing.ID, req.StartAt, totalUnits, earlyBirdTotal); err != nil {
			uc.logger.Error("CreateBooking: failed to ensure slot: %v", err)
			return fmt.Errorf("%w: failed to ensure slot: %v", ErrInternal, err)
		}

		// 3.2. Читаем слот под блокировкой (FOR UPDATE)
		slot, err := uc.ledgerRepo.GetSlot(txCtx, listing.ID, req.StartAt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get slot: %v", err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 3.3. Early-bird скидка применяется ко всему запросу, пока квота не исчерпана
		wantEarlyBird := listing.EarlyBirdPrice != nil && slot.EarlyBirdRemaining() > 0

		// 3.4. Расчет цены
		breakdown, err := uc.pricer.Quote(listing, pricing.Params{
			Quantity: req.Quantity,
			StartAt:  req.StartAt,
			EndAt:    req.EndAt,
		}, wantEarlyBird)
		if err != nil {
			uc.logger.Warn("CreateBooking: pricing rejected request: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		earlyBirdApplied = breakdown.EarlyBirdApplied

		// 3.5. Атомарное резервирование мест
		reservation, err := uc.ledgerRepo.Reserve(txCtx, listing.ID, req.StartAt, req.Quantity, breakdown.EarlyBirdApplied)
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrSoldOut) {
				uc.logger.Warn("CreateBooking: slot sold out, listing=%d, start=%s",
					listing.ID, req.StartAt.Format(time.RFC3339))
				return ErrSoldOut
			}
			uc.logger.Error("CreateBooking: failed to reserve: %v", err)
			return fmt.Errorf("%w: failed to reserve capacity: %v", ErrInternal, err)
		}

		// 3.6. Создаем бронирование со снимком цены
		booking := &domain.Booking{
			ListingID:     listing.ID,
			ListingType:   listing.DomainType(),
			CustomerID:    req.CustomerID,
			HostID:        listing.HostID,
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentUnpaid,
			StartAt:       req.StartAt,
			EndAt:         req.EndAt,
			Quantity:      req.Quantity,
			BaseAmount:    breakdown.Base,
			ServiceFee:    breakdown.ServiceFee,
			TaxAmount:     breakdown.Tax,
			TotalAmount:   breakdown.Total,
			Currency:      breakdown.Currency,
			ReservationID: &reservation.ID,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.7. Instant booking: захват платежа и немедленное подтверждение
		if listing.InstantBooking {
			if err := uc.captureAndConfirm(txCtx, created, listing, req.PaymentMethod, idempotencyKey, &paymentDeclined, &cancelledOnDecline); err != nil {
				return err
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, status=%s", result.ID, result.Status)

	occurredAt := uc.timeProvider.Now().Format(time.RFC3339)
	uc.publisher.Publish(ctx, notifications.EventBookingCreated, notifications.BookingEvent{
		BookingID:  result.ID,
		ListingID:  result.ListingID,
		CustomerID: result.CustomerID,
		HostID:     result.HostID,
		Status:     string(result.Status),
		OccurredAt: occurredAt,
	})

	// Отмена по политике cancel закоммичена вместе с бронированием:
	// отклоненная попытка остается в истории, клиенту уходит отказ платежа
	if cancelledOnDecline {
		uc.publisher.Publish(ctx, notifications.EventBookingCancelled, notifications.BookingEvent{
			BookingID:  result.ID,
			ListingID:  result.ListingID,
			CustomerID: result.CustomerID,
			HostID:     result.HostID,
			Status:     string(domain.StatusCancelled),
			OccurredAt: occurredAt,
		})
		return nil, ErrPaymentDeclined
	}

	if result.Status == domain.StatusConfirmed {
		uc.publisher.Publish(ctx, notifications.EventBookingConfirmed, notifications.BookingEvent{
			BookingID:  result.ID,
			ListingID:  result.ListingID,
			CustomerID: result.CustomerID,
			HostID:     result.HostID,
			Status:     string(result.Status),
			OccurredAt: occurredAt,
		})
	}

	return toResponse(result, earlyBirdApplied, paymentDeclined), nil
}

// captureAndConfirm захватывает платеж и переводит бронирование в confirmed
//
// Вызывается внутри открытой транзакции; повтор транзакции безопасен, потому
// что захват уходит провайдеру с ключом идемпотентности, стабильным на всю
// операцию. При отклонении платежа поведение задается политикой объявления:
// cancel фиксирует бронирование отмененным и освобождает резерв (попытка
// остается в истории), keep_pending оставляет бронирование в pending,
// чтобы клиент мог повторить оплату
func (uc *UseCase) captureAndConfirm(txCtx context.Context, booking *domain.Booking, listing *listingClient.Listing, method, idempotencyKey string, paymentDeclined, cancelledOnDecline *bool) error {
	capture, err := uc.paymentClient.CapturePayment(txCtx, &paymentservice.CaptureRequest{
		CustomerID:     booking.CustomerID,
		BookingID:      booking.ID,
		Amount:         int64(booking.TotalAmount),
		Currency:       booking.Currency,
		Method:         method,
		IdempotencyKey: idempotencyKey,
	})

	if err != nil {
		if errors.Is(err, paymentservice.ErrPaymentDeclined) {
			if listing.FailurePolicy() == domain.PaymentFailureCancel {
				uc.logger.Warn("CreateBooking: payment declined for booking id=%d, cancelling per listing policy", booking.ID)
				return uc.cancelDeclined(txCtx, booking, cancelledOnDecline)
			}
			uc.logger.Warn("CreateBooking: payment declined for booking id=%d, keeping pending", booking.ID)
			*paymentDeclined = true
			return nil
		}
		uc.logger.Error("CreateBooking: payment capture failed for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: payment capture failed: %v", ErrInternal, err)
	}

	if err := uc.bookingRepo.SetPayment(txCtx, booking.ID, capture.PaymentID, domain.PaymentPaid); err != nil {
		uc.logger.Error("CreateBooking: failed to record payment for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to record payment: %v", ErrInternal, err)
	}

	if err := uc.bookingRepo.UpdateStatusFrom(txCtx, booking.ID, domain.StatusPending, domain.StatusConfirmed); err != nil {
		uc.logger.Error("CreateBooking: failed to confirm booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
	}

	number, err := uc.confirmations.Issue(txCtx, booking.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to issue confirmation number for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to issue confirmation number: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentPaid
	booking.PaymentID = &capture.PaymentID
	booking.ConfirmationNumber = &number

	return nil
}

// cancelDeclined фиксирует отклоненную instant-попытку отмененной
// и освобождает резерв мест в той же транзакции
func (uc *UseCase) cancelDeclined(txCtx context.Context, booking *domain.Booking, cancelledOnDecline *bool) error {
	if err := uc.bookingRepo.CancelFrom(txCtx, booking.ID, domain.StatusPending, domain.ActorSystem, domain.CancelReasonPaymentDeclined); err != nil {
		uc.logger.Error("CreateBooking: failed to cancel declined booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to cancel declined booking: %v", ErrInternal, err)
	}

	if booking.ReservationID != nil {
		if err := uc.ledgerRepo.Release(txCtx, *booking.ReservationID); err != nil {
			uc.logger.Error("CreateBooking: failed to release reservation id=%d: %v", *booking.ReservationID, err)
			return fmt.Errorf("%w: failed to release reservation: %v", ErrInternal, err)
		}
	}

	booking.Status = domain.StatusCancelled
	*cancelledOnDecline = true
	return nil
}
