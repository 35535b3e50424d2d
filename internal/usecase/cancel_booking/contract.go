package cancel_booking

import (
	"context"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	"github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/internal/integrations/paymentservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	CancelFrom(ctx context.Context, id int64, from domain.BookingStatus, actor domain.CancelActor, reason string) error
	SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// LedgerRepository интерфейс репозитория capacity ledger
type LedgerRepository interface {
	Release(ctx context.Context, reservationID int64) error
}

// ListingServiceClient интерфейс клиента ListingService
type ListingServiceClient interface {
	GetListing(ctx context.Context, listingID int64) (*listingservice.Listing, error)
}

// PaymentServiceClient интерфейс клиента платежного провайдера
type PaymentServiceClient interface {
	Refund(ctx context.Context, req *paymentservice.RefundRequest) (*paymentservice.RefundResult, error)
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
