package create_booking

import (
	"fmt"
	"time"

	createBooking "github.com/nowtown/NT-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ListingID     int64  `json:"listingId"`
	StartAt       string `json:"startAt"` // RFC3339
	EndAt         string `json:"endAt"`   // RFC3339
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64  `json:"id"`
	ListingID     int64  `json:"listingId"`
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

	EarlyBirdApplied   bool    `json:"earlyBirdApplied"`
	ConfirmationNumber *string `json:"confirmationNumber,omitempty"`
	PaymentDeclined    bool    `json:"paymentDeclined,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, fmt.Errorf("invalid startAt: %w", err)
	}

	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil, fmt.Errorf("invalid endAt: %w", err)
	}

	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}

	return &createBooking.Request{
		CustomerID:    customerID,
		ListingID:     r.ListingID,
		StartAt:       startAt,
		EndAt:         endAt,
		Quantity:      quantity,
		PaymentMethod: r.PaymentMethod,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                 resp.ID,
		ListingID:          resp.ListingID,
		CustomerID:         resp.CustomerID,
		HostID:             resp.HostID,
		Status:             resp.Status,
		PaymentStatus:      resp.PaymentStatus,
		StartAt:            resp.StartAt.Format(time.RFC3339),
		EndAt:              resp.EndAt.Format(time.RFC3339),
		Quantity:           resp.Quantity,
		BaseAmount:         resp.BaseAmount,
		ServiceFee:         resp.ServiceFee,
		TaxAmount:          resp.TaxAmount,
		TotalAmount:        resp.TotalAmount,
		Currency:           resp.Currency,
		EarlyBirdApplied:   resp.EarlyBirdApplied,
		ConfirmationNumber: resp.ConfirmationNumber,
		PaymentDeclined:    resp.PaymentDeclined,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
	}
}
