package cancel_booking

import (
	"time"

	cancelBooking "github.com/nowtown/NT-BookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	CancelledBy   string `json:"cancelledBy"`

	RefundPercent int    `json:"refundPercent"`
	RefundAmount  int64  `json:"refundAmount"`
	Currency      string `json:"currency"`
	RefundFailed  bool   `json:"refundFailed,omitempty"`

	CancelledAt string `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:            resp.ID,
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		CancelledBy:   resp.CancelledBy,
		RefundPercent: resp.RefundPercent,
		RefundAmount:  resp.RefundAmount,
		Currency:      resp.Currency,
		RefundFailed:  resp.RefundFailed,
		CancelledAt:   resp.CancelledAt.Format(time.RFC3339),
	}
}
