package get_quote

import (
	"fmt"
	"time"

	getQuote "github.com/nowtown/NT-BookingService/internal/usecase/get_quote"
)

// GetQuoteRequest HTTP request model
type GetQuoteRequest struct {
	ListingID int64  `json:"listingId"`
	StartAt   string `json:"startAt"` // RFC3339
	EndAt     string `json:"endAt"`   // RFC3339
	Quantity  int    `json:"quantity"`
}

// QuoteResponse HTTP response model
type QuoteResponse struct {
	ListingID int64 `json:"listingId"`

	BaseAmount  int64  `json:"baseAmount"`
	ServiceFee  int64  `json:"serviceFee"`
	TaxAmount   int64  `json:"taxAmount"`
	TotalAmount int64  `json:"totalAmount"`
	Currency    string `json:"currency"`

	Units            int  `json:"units"`
	EarlyBirdApplied bool `json:"earlyBirdApplied"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GetQuoteRequest) ToUseCaseRequest() (*getQuote.Request, error) {
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

	return &getQuote.Request{
		ListingID: r.ListingID,
		StartAt:   startAt,
		EndAt:     endAt,
		Quantity:  quantity,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getQuote.Response) *QuoteResponse {
	return &QuoteResponse{
		ListingID:        resp.ListingID,
		BaseAmount:       resp.BaseAmount,
		ServiceFee:       resp.ServiceFee,
		TaxAmount:        resp.TaxAmount,
		TotalAmount:      resp.TotalAmount,
		Currency:         resp.Currency,
		Units:            resp.Units,
		EarlyBirdApplied: resp.EarlyBirdApplied,
	}
}
