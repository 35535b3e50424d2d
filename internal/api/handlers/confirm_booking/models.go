package confirm_booking

import (
	"time"

	confirmBooking "github.com/nowtown/NT-BookingService/internal/usecase/confirm_booking"
)

// ConfirmBookingRequest HTTP request model
type ConfirmBookingRequest struct {
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// ConfirmBookingResponse HTTP response model
type ConfirmBookingResponse struct {
	ID                 int64   `json:"id"`
	Status             string  `json:"status"`
	PaymentStatus      string  `json:"paymentStatus"`
	ConfirmationNumber *string `json:"confirmationNumber,omitempty"`
	TotalAmount        int64   `json:"totalAmount"`
	Currency           string  `json:"currency"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmBooking.Response) *ConfirmBookingResponse {
	return &ConfirmBookingResponse{
		ID:                 resp.ID,
		Status:             resp.Status,
		PaymentStatus:      resp.PaymentStatus,
		ConfirmationNumber: resp.ConfirmationNumber,
		TotalAmount:        resp.TotalAmount,
		Currency:           resp.Currency,
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}
}
