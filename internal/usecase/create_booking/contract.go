package create_booking

import (
	"context"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	"github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/internal/integrations/paymentservice"
	"github.com/nowtown/NT-BookingService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error
	CancelFrom(ctx context.Context, id int64, from domain.BookingStatus, actor domain.CancelActor, reason string) error
	SetPayment(ctx context.Context, id int64, paymentID string, status domain.PaymentStatus) error
}

// LedgerRepository интерфейс репозитория capacity ledger
type LedgerRepository interface {
	EnsureSlot(ctx context.Context, listingID int64, slotStart time.Time, totalUnits, earlyBirdTotal int) error
	GetSlot(ctx context.Context, listingID int64, slotStart time.Time) (*domain.CapacityLedger, error)
	Reserve(ctx context.Context, listingID int64, slotStart time.Time, quantity int, claimEarlyBird bool) (*domain.CapacityReservation, error)
	Release(ctx context.Context, reservationID int64) error
}

// ListingServiceClient интерфейс клиента ListingService
type ListingServiceClient interface {
	GetListing(ctx context.Context, listingID int64) (*listingservice.Listing, error)
}

// PaymentServiceClient интерфейс клиента платежного провайдера
type PaymentServiceClient interface {
	CapturePayment(ctx context.Context, req *paymentservice.CaptureRequest) (*paymentservice.CaptureResult, error)
}

// Pricer интерфейс калькулятора цены
type Pricer interface {
	Quote(listing *listingservice.Listing, params pricing.Params, earlyBird bool) (*domain.PriceBreakdown, error)
}

// ConfirmationIssuer интерфейс выдачи номеров подтверждения
type ConfirmationIssuer interface {
	Issue(ctx context.Context, bookingID int64) (string, error)
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
