package sweep_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	bookingRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	"github.com/nowtown/NT-BookingService/internal/notifications"
)

// Размер пачки за один проход
// Хвост, не поместившийся в пачку, будет подобран следующим тиком
const batchSize = 100

// Result итог одного прохода
type Result struct {
	// Expired - pending-бронирования, отмененные по истечении окна ожидания
	Expired int
	// Completed - confirmed-бронирования, завершенные по прошествии end_at
	Completed int
}

// UseCase фоновый проход по бронированиям: автоотмена просроченных pending
// и завершение прошедших confirmed
type UseCase struct {
	bookingRepo   BookingRepository
	ledgerRepo    LedgerRepository
	publisher     EventPublisher
	txManager     TransactionManager
	timeProvider  TimeProvider
	pendingWindow time.Duration
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	pendingWindow time.Duration,
	logger Logger,
) *UseCase {
	if pendingWindow <= 0 {
		pendingWindow = domain.DefaultPendingWindow
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		ledgerRepo:    ledgerRepo,
		publisher:     publisher,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		pendingWindow: pendingWindow,
		logger:        logger,
	}
}

// Execute выполняет один проход
//
// Проход идемпотентен: каждая мутация - CAS-переход от ожидаемого статуса,
// и бронирование, уже обработанное конкурирующим проходом или пользователем,
// просто пропускается. Выборки идут с FOR UPDATE SKIP LOCKED, поэтому
// параллельный проход не блокируется, а берет другие строки
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()
	result := &Result{}

	expired, err := uc.expirePending(ctx, now)
	if err != nil {
		return nil, err
	}
	result.Expired = len(expired)

	completed, err := uc.completeFinished(ctx, now)
	if err != nil {
		return nil, err
	}
	result.Completed = len(completed)

	if result.Expired > 0 || result.Completed > 0 {
		uc.logger.Info("SweepBookings: expired=%d, completed=%d", result.Expired, result.Completed)
	}

	occurredAt := uc.timeProvider.Now().Format(time.RFC3339)
	for _, b := range expired {
		uc.publisher.Publish(ctx, notifications.EventBookingCancelled, notifications.BookingEvent{
			BookingID:  b.ID,
			ListingID:  b.ListingID,
			CustomerID: b.CustomerID,
			HostID:     b.HostID,
			Status:     string(domain.StatusCancelled),
			OccurredAt: occurredAt,
		})
	}
	for _, b := range completed {
		uc.publisher.Publish(ctx, notifications.EventBookingCompleted, notifications.BookingEvent{
			BookingID:  b.ID,
			ListingID:  b.ListingID,
			CustomerID: b.CustomerID,
			HostID:     b.HostID,
			Status:     string(domain.StatusCompleted),
			OccurredAt: occurredAt,
		})
	}

	return result, nil
}

// expirePending отменяет pending-бронирования, пережившие окно ожидания,
// и освобождает их резервы мест
func (uc *UseCase) expirePending(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	cutoff := now.Add(-uc.pendingWindow)
	var expired []*domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		expired = expired[:0]

		candidates, err := uc.bookingRepo.ListExpiredPending(txCtx, cutoff, batchSize)
		if err != nil {
			uc.logger.Error("SweepBookings: failed to list expired pending: %v", err)
			return fmt.Errorf("%w: failed to list expired pending: %v", ErrInternal, err)
		}

		for _, b := range candidates {
			err := uc.bookingRepo.CancelFrom(txCtx, b.ID, domain.StatusPending, domain.ActorSystem, domain.CancelReasonExpired)
			if err != nil {
				if errors.Is(err, bookingRepo.ErrStaleStatus) || errors.Is(err, bookingRepo.ErrBookingNotFound) {
					continue
				}
				uc.logger.Error("SweepBookings: failed to expire booking id=%d: %v", b.ID, err)
				return fmt.Errorf("%w: failed to expire booking: %v", ErrInternal, err)
			}

			if b.ReservationID != nil {
				if err := uc.ledgerRepo.Release(txCtx, *b.ReservationID); err != nil {
					uc.logger.Error("SweepBookings: failed to release reservation id=%d: %v", *b.ReservationID, err)
					return fmt.Errorf("%w: failed to release reservation: %v", ErrInternal, err)
				}
			}

			expired = append(expired, b)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return expired, nil
}

// completeFinished переводит confirmed-бронирования с прошедшим end_at в completed
func (uc *UseCase) completeFinished(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	var completed []*domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		completed = completed[:0]

		candidates, err := uc.bookingRepo.ListFinishedConfirmed(txCtx, now, batchSize)
		if err != nil {
			uc.logger.Error("SweepBookings: failed to list finished confirmed: %v", err)
			return fmt.Errorf("%w: failed to list finished confirmed: %v", ErrInternal, err)
		}

		for _, b := range candidates {
			err := uc.bookingRepo.UpdateStatusFrom(txCtx, b.ID, domain.StatusConfirmed, domain.StatusCompleted)
			if err != nil {
				if errors.Is(err, bookingRepo.ErrStaleStatus) || errors.Is(err, bookingRepo.ErrBookingNotFound) {
					continue
				}
				uc.logger.Error("SweepBookings: failed to complete booking id=%d: %v", b.ID, err)
				return fmt.Errorf("%w: failed to complete booking: %v", ErrInternal, err)
			}

			completed = append(completed, b)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return completed, nil
}
