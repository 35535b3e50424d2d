package confirm_booking

import (
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

// Request входные данные для подтверждения бронирования хостом
type Request struct {
	BookingID     int64
	HostID        int64
	PaymentMethod string
}

// Response результат подтверждения
type Response struct {
	ID                 int64
	Status             string
	PaymentStatus      string
	ConfirmationNumber *string
	TotalAmount        int64
	Currency           string
	UpdatedAt          time.Time
}

func toResponse(booking *domain.Booking) *Response {
	return &Response{
		ID:                 booking.ID,
		Status:             string(booking.Status),
		PaymentStatus:      string(booking.PaymentStatus),
		ConfirmationNumber: booking.ConfirmationNumber,
		TotalAmount:        int64(booking.TotalAmount),
		Currency:           booking.Currency,
		UpdatedAt:          booking.UpdatedAt,
	}
}
