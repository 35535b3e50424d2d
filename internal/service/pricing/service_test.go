package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowtown/NT-BookingService/internal/domain"
	"github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/pkg/money"
	"github.com/nowtown/NT-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testRates() Rates {
	return Rates{
		VAT: 1900,
		PlanFees: map[domain.HostPlan]money.BasisPoints{
			domain.PlanStandard: 1000,
			domain.PlanPlus:     0,
			domain.PlanPro:      0,
		},
	}
}

func eventListing() *listingservice.Listing {
	return &listingservice.Listing{
		ID:          10,
		HostID:      7,
		Type:        "event",
		BasePrice:   5000, // 50.00
		Currency:    "EUR",
		PricingUnit: "per_ticket",
		Capacity:    ptr.Ptr(100),
		HostPlan:    "standard",
	}
}

func TestQuote_EventStandardPlan(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	breakdown, err := service.Quote(eventListing(), Params{Quantity: 2}, false)
	require.NoError(t, err)

	// base 100.00, fee 10% = 10.00, tax 19% of 110.00 = 20.90
	assert.Equal(t, money.Amount(10000), breakdown.Base)
	assert.Equal(t, money.Amount(1000), breakdown.ServiceFee)
	assert.Equal(t, money.Amount(2090), breakdown.Tax)
	assert.Equal(t, money.Amount(13090), breakdown.Total)
	assert.Equal(t, 2, breakdown.Units)
	assert.False(t, breakdown.EarlyBirdApplied)
	assert.True(t, breakdown.Consistent())
}

func TestQuote_PlusPlanWaivesServiceFee(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	listing := eventListing()
	listing.HostPlan = "plus"

	breakdown, err := service.Quote(listing, Params{Quantity: 1}, false)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(5000), breakdown.Base)
	assert.Equal(t, money.Amount(0), breakdown.ServiceFee)
	assert.Equal(t, money.Amount(950), breakdown.Tax)
	assert.Equal(t, money.Amount(5950), breakdown.Total)
}

func TestQuote_UnknownPlanFallsBackToStandard(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	listing := eventListing()
	listing.HostPlan = "enterprise"

	breakdown, err := service.Quote(listing, Params{Quantity: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(500), breakdown.ServiceFee)
}

func TestQuote_EarlyBirdUsesDiscountedUnitPrice(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	listing := eventListing()
	listing.EarlyBirdPrice = ptr.Ptr(int64(4000))
	listing.EarlyBirdQuota = 10

	breakdown, err := service.Quote(listing, Params{Quantity: 3}, true)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(12000), breakdown.Base)
	assert.True(t, breakdown.EarlyBirdApplied)
	assert.True(t, breakdown.Consistent())
}

func TestQuote_EarlyBirdFlagWithoutPriceIsIgnored(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	breakdown, err := service.Quote(eventListing(), Params{Quantity: 1}, true)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(5000), breakdown.Base)
	assert.False(t, breakdown.EarlyBirdApplied)
}

func TestQuote_SpacePerHourRoundsUp(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	listing := &listingservice.Listing{
		ID:              20,
		Type:            "space",
		BasePrice:       2000, // 20.00 в час
		Currency:        "EUR",
		PricingUnit:     "per_hour",
		MinBookingHours: 2,
		HostPlan:        "standard",
	}

	// 2.5 часа округляются вверх до 3
	breakdown, err := service.Quote(listing, Params{
		Quantity: 1,
		StartAt:  start,
		EndAt:    start.Add(2*time.Hour + 30*time.Minute),
	}, false)
	require.NoError(t, err)

	assert.Equal(t, 3, breakdown.Units)
	assert.Equal(t, money.Amount(6000), breakdown.Base)
}

func TestQuote_SpaceBelowMinimumDuration(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	listing := &listingservice.Listing{
		ID:              20,
		Type:            "space",
		BasePrice:       2000,
		Currency:        "EUR",
		PricingUnit:     "per_hour",
		MinBookingHours: 3,
		HostPlan:        "standard",
	}

	_, err := service.Quote(listing, Params{
		Quantity: 1,
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
	}, false)
	assert.ErrorIs(t, err, ErrBelowMinimumDuration)
}

func TestQuote_PerDayDuration(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	listing := &listingservice.Listing{
		ID:          21,
		Type:        "space",
		BasePrice:   10000,
		Currency:    "EUR",
		PricingUnit: "per_day",
		HostPlan:    "pro",
	}

	// 1.5 суток округляются вверх до 2
	breakdown, err := service.Quote(listing, Params{
		Quantity: 1,
		StartAt:  start,
		EndAt:    start.Add(36 * time.Hour),
	}, false)
	require.NoError(t, err)

	assert.Equal(t, 2, breakdown.Units)
	assert.Equal(t, money.Amount(20000), breakdown.Base)
	assert.Equal(t, money.Amount(0), breakdown.ServiceFee)
}

func TestQuote_RejectsInvalidParams(t *testing.T) {
	service := NewService(testRates(), nopLogger{})
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		listing *listingservice.Listing
		params  Params
		wantErr error
	}{
		{
			name:    "zero quantity for tickets",
			listing: eventListing(),
			params:  Params{Quantity: 0},
			wantErr: ErrInvalidParams,
		},
		{
			name:    "negative quantity",
			listing: eventListing(),
			params:  Params{Quantity: -1},
			wantErr: ErrInvalidParams,
		},
		{
			name:    "quantity above hard cap",
			listing: eventListing(),
			params:  Params{Quantity: domain.MaxBookingQuantity + 1},
			wantErr: ErrInvalidParams,
		},
		{
			name: "quantity above listing capacity",
			listing: func() *listingservice.Listing {
				l := eventListing()
				l.Capacity = ptr.Ptr(5)
				return l
			}(),
			params:  Params{Quantity: 6},
			wantErr: ErrQuantityExceedsCapacity,
		},
		{
			name: "zero quantity for hourly space",
			listing: &listingservice.Listing{
				Type:        "space",
				BasePrice:   2000,
				PricingUnit: "per_hour",
				HostPlan:    "standard",
			},
			params:  Params{Quantity: 0, StartAt: start, EndAt: start.Add(2 * time.Hour)},
			wantErr: ErrInvalidParams,
		},
		{
			name: "negative quantity for daily space",
			listing: &listingservice.Listing{
				Type:        "space",
				BasePrice:   9000,
				PricingUnit: "per_day",
				HostPlan:    "standard",
			},
			params:  Params{Quantity: -1, StartAt: start, EndAt: start.Add(24 * time.Hour)},
			wantErr: ErrInvalidParams,
		},
		{
			name: "end before start",
			listing: &listingservice.Listing{
				Type:        "space",
				BasePrice:   2000,
				PricingUnit: "per_hour",
				HostPlan:    "standard",
			},
			params:  Params{Quantity: 1, StartAt: start, EndAt: start.Add(-time.Hour)},
			wantErr: ErrInvalidParams,
		},
		{
			name: "unknown pricing unit",
			listing: &listingservice.Listing{
				Type:        "event",
				BasePrice:   2000,
				PricingUnit: "per_lifetime",
				HostPlan:    "standard",
			},
			params:  Params{Quantity: 1},
			wantErr: ErrUnknownPricingUnit,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Quote(tc.listing, tc.params, false)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestQuote_Deterministic(t *testing.T) {
	service := NewService(testRates(), nopLogger{})

	first, err := service.Quote(eventListing(), Params{Quantity: 7}, false)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		next, err := service.Quote(eventListing(), Params{Quantity: 7}, false)
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}
