package get_availability

import (
	"time"

	getAvailability "github.com/nowtown/NT-BookingService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ListingID int64  `json:"listingId"`
	SlotStart string `json:"slotStart"`

	Unlimited      bool `json:"unlimited"`
	TotalUnits     int  `json:"totalUnits"`
	ReservedUnits  int  `json:"reservedUnits"`
	AvailableUnits *int `json:"availableUnits,omitempty"`

	EarlyBirdRemaining int `json:"earlyBirdRemaining"`
}

// FromUseCaseResponse конвертирует usecase response в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		ListingID:          resp.ListingID,
		SlotStart:          resp.SlotStart.Format(time.RFC3339),
		Unlimited:          resp.Unlimited,
		TotalUnits:         resp.TotalUnits,
		ReservedUnits:      resp.ReservedUnits,
		AvailableUnits:     resp.AvailableUnits,
		EarlyBirdRemaining: resp.EarlyBirdRemaining,
	}
}
