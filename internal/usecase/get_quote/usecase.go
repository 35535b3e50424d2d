package get_quote

import (
	"context"
	"errors"
	"fmt"

	ledgerRepo "github.com/nowtown/NT-BookingService/internal/infra/storage/ledger"
	listingClient "github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/internal/service/pricing"
)

// UseCase use case предварительного расчета цены
type UseCase struct {
	ledgerRepo    LedgerRepository
	listingClient ListingServiceClient
	pricer        Pricer
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledgerRepo LedgerRepository, listingClient ListingServiceClient, pricer Pricer, logger Logger) *UseCase {
	return &UseCase{
		ledgerRepo:    ledgerRepo,
		listingClient: listingClient,
		pricer:        pricer,
		logger:        logger,
	}
}

// Execute считает цену бронирования без резервирования мест
// Early-bird скидка показывается по текущему остатку квоты; окончательное
// решение о скидке принимается при создании бронирования под блокировкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ListingID <= 0 {
		return nil, fmt.Errorf("%w: listing_id must be positive", ErrInvalidInput)
	}

	listing, err := uc.listingClient.GetListing(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, listingClient.ErrListingNotFound) {
			uc.logger.Warn("GetQuote: listing id=%d not found", req.ListingID)
			return nil, ErrListingNotFound
		}
		uc.logger.Error("GetQuote: failed to get listing id=%d: %v", req.ListingID, err)
		return nil, fmt.Errorf("%w: failed to get listing: %v", ErrInternal, err)
	}

	earlyBird := false
	if listing.EarlyBirdPrice != nil {
		slot, err := uc.ledgerRepo.GetSlot(ctx, req.ListingID, req.StartAt)
		switch {
		case err == nil:
			earlyBird = slot.EarlyBirdRemaining() > 0
		case errors.Is(err, ledgerRepo.ErrSlotNotFound):
			earlyBird = listing.EarlyBirdQuota > 0
		default:
			uc.logger.Error("GetQuote: failed to get slot: %v", err)
			return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
	}

	breakdown, err := uc.pricer.Quote(listing, pricing.Params{
		Quantity: req.Quantity,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
	}, earlyBird)
	if err != nil {
		uc.logger.Warn("GetQuote: pricing rejected request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return toResponse(listing.ID, breakdown), nil
}
