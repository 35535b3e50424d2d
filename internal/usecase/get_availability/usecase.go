package get_availability

import (
	"context"
	"errors"
	"fmt"

	ledgerRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/ledger"
	listingClient "github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/pkg/ptr"
)

// UseCase use case проверки доступности слота
type UseCase struct {
	ledgerRepo    LedgerRepository
	listingClient ListingServiceClient
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledgerRepo LedgerRepository, listingClient ListingServiceClient, logger Logger) *UseCase {
	return &UseCase{
		ledgerRepo:    ledgerRepo,
		listingClient: listingClient,
		logger:        logger,
	}
}

// Execute возвращает снимок доступности слота
// Запись ledger создается лениво при первом бронировании, поэтому её
// отсутствие означает полностью свободный слот с вместимостью объявления
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ListingID <= 0 {
		return nil, fmt.Errorf("%w: listing_id must be positive", ErrInvalidInput)
	}
	if req.SlotStart.IsZero() {
		return nil, fmt.Errorf("%w: slot start is required", ErrInvalidInput)
	}

	listing, err := uc.listingClient.GetListing(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, listingClient.ErrListingNotFound) {
			uc.logger.Warn("GetAvailability: listing id=%d not found", req.ListingID)
			return nil, ErrListingNotFound
		}
		uc.logger.Error("GetAvailability: failed to get listing id=%d: %v", req.ListingID, err)
		return nil, fmt.Errorf("%w: failed to get listing: %v", ErrInternal, err)
	}

	resp := &Response{
		ListingID: req.ListingID,
		SlotStart: req.SlotStart,
	}

	slot, err := uc.ledgerRepo.GetSlot(ctx, req.ListingID, req.SlotStart)
	if err != nil {
		if !errors.Is(err, ledgerRepo.ErrSlotNotFound) {
			uc.logger.Error("GetAvailability: failed to get slot: %v", err)
			return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// Бронирований на слот еще не было
		if listing.Capacity == nil {
			resp.Unlimited = true
		} else {
			resp.TotalUnits = *listing.Capacity
			resp.AvailableUnits = ptr.Ptr(*listing.Capacity)
		}
		if listing.EarlyBirdPrice != nil {
			resp.EarlyBirdRemaining = listing.EarlyBirdQuota
		}
		return resp, nil
	}

	resp.TotalUnits = slot.TotalUnits
	resp.ReservedUnits = slot.ReservedUnits
	if slot.TotalUnits == 0 {
		resp.Unlimited = true
	} else {
		resp.AvailableUnits = ptr.Ptr(slot.Remaining())
	}
	resp.EarlyBirdRemaining = slot.EarlyBirdRemaining()

	return resp, nil
}
