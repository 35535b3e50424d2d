package get_availability

import (
	"context"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	"github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
)

// LedgerRepository интерфейс репозитория capacity ledger
type LedgerRepository interface {
	GetSlot(ctx context.Context, listingID int64, slotStart time.Time) (*domain.CapacityLedger, error)
}

// ListingServiceClient интерфейс клиента ListingService
type ListingServiceClient interface {
	GetListing(ctx context.Context, listingID int64) (*listingservice.Listing, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
