package get_user_bookings

import (
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

// BookingItem элемент списка бронирований
type BookingItem struct {
	ID            int64  `json:"id"`
	ListingID     int64  `json:"listingId"`
	ListingType   string `json:"listingType"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	StartAt  string `json:"startAt"`
	EndAt    string `json:"endAt"`
	Quantity int    `json:"quantity"`

	TotalAmount int64  `json:"totalAmount"`
	Currency    string `json:"currency"`

	ConfirmationNumber *string `json:"confirmationNumber,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// BookingsListResponse HTTP response model
type BookingsListResponse struct {
	Bookings []BookingItem `json:"bookings"`
}

// FromDomainList конвертирует список domain-моделей в HTTP response
func FromDomainList(list []*domain.Booking) *BookingsListResponse {
	items := make([]BookingItem, 0, len(list))
	for _, b := range list {
		items = append(items, BookingItem{
			ID:                 b.ID,
			ListingID:          b.ListingID,
			ListingType:        string(b.ListingType),
			Status:             string(b.Status),
			PaymentStatus:      string(b.PaymentStatus),
			StartAt:            b.StartAt.Format(time.RFC3339),
			EndAt:              b.EndAt.Format(time.RFC3339),
			Quantity:           b.Quantity,
			TotalAmount:        int64(b.TotalAmount),
			Currency:           b.Currency,
			ConfirmationNumber: b.ConfirmationNumber,
			CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		})
	}
	return &BookingsListResponse{Bookings: items}
}
