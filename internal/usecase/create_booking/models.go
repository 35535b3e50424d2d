package create_booking

import (
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

// Request входные данные для создания бронирования
type Request struct {
	CustomerID    int64
	ListingID     int64
	StartAt       time.Time
	EndAt         time.Time
	Quantity      int
	PaymentMethod string
}

// Response результат создания бронирования
type Response struct {
	ID            int64
	ListingID     int64
	CustomerID    int64
	HostID        int64
	Status        string
	PaymentStatus string

	StartAt  time.Time
	EndAt    time.Time
	Quantity int

	BaseAmount  int64
	ServiceFee  int64
	TaxAmount   int64
	TotalAmount int64
	Currency    string

	EarlyBirdApplied   bool
	ConfirmationNumber *string

	// PaymentDeclined = true, когда платеж отклонен, но бронирование
	// осталось в pending по политике объявления (клиент может повторить оплату)
	PaymentDeclined bool

	CreatedAt time.Time
}

func toResponse(booking *domain.Booking, earlyBirdApplied, paymentDeclined bool) *Response {
	return &Response{
		ID:                 booking.ID,
		ListingID:          booking.ListingID,
		CustomerID:         booking.CustomerID,
		HostID:             booking.HostID,
		Status:             string(booking.Status),
		PaymentStatus:      string(booking.PaymentStatus),
		StartAt:            booking.StartAt,
		EndAt:              booking.EndAt,
		Quantity:           booking.Quantity,
		BaseAmount:         int64(booking.BaseAmount),
		ServiceFee:         int64(booking.ServiceFee),
		TaxAmount:          int64(booking.TaxAmount),
		TotalAmount:        int64(booking.TotalAmount),
		Currency:           booking.Currency,
		EarlyBirdApplied:   earlyBirdApplied,
		ConfirmationNumber: booking.ConfirmationNumber,
		PaymentDeclined:    paymentDeclined,
		CreatedAt:          booking.CreatedAt,
	}
}
