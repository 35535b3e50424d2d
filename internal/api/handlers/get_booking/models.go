package get_booking

import (
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64  `json:"id"`
	ListingID     int64  `json:"listingId"`
	ListingType   string `json:"listingType"`
	CustomerID    int64  `json:"customerId"`
	HostID        int64  `json:"hostId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	StartAt  string `json:"startAt"`
	EndAt    string `json:"endAt"`
	Quantity int    `json:"quantity"`

	BaseAmount  int64  `json:"baseAmount"`
	ServiceFee  int64  `json:"serviceFee"`
	TaxAmount   int64  `json:"taxAmount"`
	TotalAmount int64  `json:"totalAmount"`
	Currency    string `json:"currency"`

	ConfirmationNumber *string `json:"confirmationNumber,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FromDomain конвертирует domain-модель в HTTP response
func FromDomain(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		ListingID:          b.ListingID,
		ListingType:        string(b.ListingType),
		CustomerID:         b.CustomerID,
		HostID:             b.HostID,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		StartAt:            b.StartAt.Format(time.RFC3339),
		EndAt:              b.EndAt.Format(time.RFC3339),
		Quantity:           b.Quantity,
		BaseAmount:         int64(b.BaseAmount),
		ServiceFee:         int64(b.ServiceFee),
		TaxAmount:          int64(b.TaxAmount),
		TotalAmount:        int64(b.TotalAmount),
		Currency:           b.Currency,
		ConfirmationNumber: b.ConfirmationNumber,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}

	if b.CancelledBy != nil {
		actor := string(*b.CancelledBy)
		resp.CancelledBy = &actor
	}
	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}
