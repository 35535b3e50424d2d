package get_quote

import (
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

// Request входные данные для предварительного расчета цены
type Request struct {
	ListingID int64
	StartAt   time.Time
	EndAt     time.Time
	Quantity  int
}

// Response разбивка цены без создания бронирования
// Цена носит справочный характер: окончательная цена фиксируется
// при создании бронирования под блокировкой ledger
type Response struct {
	ListingID int64

	BaseAmount  int64
	ServiceFee  int64
	TaxAmount   int64
	TotalAmount int64
	Currency    string

	Units            int
	EarlyBirdApplied bool
}

func toResponse(listingID int64, breakdown *domain.PriceBreakdown) *Response {
	return &Response{
		ListingID:        listingID,
		BaseAmount:       int64(breakdown.Base),
		ServiceFee:       int64(breakdown.ServiceFee),
		TaxAmount:        int64(breakdown.Tax),
		TotalAmount:      int64(breakdown.Total),
		Currency:         breakdown.Currency,
		Units:            breakdown.Units,
		EarlyBirdApplied: breakdown.EarlyBirdApplied,
	}
}
