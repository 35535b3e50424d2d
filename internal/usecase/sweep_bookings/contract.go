package sweep_bookings

import (
	"context"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit uint64) ([]*domain.Booking, error)
	ListFinishedConfirmed(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error)
	CancelFrom(ctx context.Context, id int64, from domain.BookingStatus, actor domain.CancelActor, reason string) error
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error
}

// LedgerRepository интерфейс репозитория capacity ledger
type LedgerRepository interface {
	Release(ctx context.Context, reservationID int64) error
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{})
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
