package cancel_booking

import (
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

// Request входные данные для отмены бронирования
type Request struct {
	BookingID   int64
	RequesterID int64
	Reason      string
}

// Response результат отмены
type Response struct {
	ID            int64
	Status        string
	PaymentStatus string
	CancelledBy   string

	// RefundPercent и RefundAmount - решение тарифной политики отмены
	// RefundAmount в минорных единицах валюты, ограничен захваченной суммой
	RefundPercent int
	RefundAmount  int64
	Currency      string

	// RefundFailed = true, когда провайдер не смог выполнить возврат;
	// бронирование при этом остается отмененным, возврат уходит в ручной разбор
	RefundFailed bool

	CancelledAt time.Time
}

func toResponse(booking *domain.Booking, decision domain.RefundDecision, actor domain.CancelActor, refundFailed bool, cancelledAt time.Time) *Response {
	return &Response{
		ID:            booking.ID,
		Status:        string(domain.StatusCancelled),
		PaymentStatus: string(booking.PaymentStatus),
		CancelledBy:   string(actor),
		RefundPercent: decision.Percent,
		RefundAmount:  int64(decision.Amount),
		Currency:      booking.Currency,
		RefundFailed:  refundFailed,
		CancelledAt:   cancelledAt,
	}
}
