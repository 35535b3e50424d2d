package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowtown/NT-BookingService/internal/domain"
	storage "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	"github.com/nowtown/NT-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	lastCustomerFilter domain.CustomerBookingsFilter
	lastHostFilter     domain.HostBookingsFilter
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error) {
	f.lastCustomerFilter = filter
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.CustomerID == filter.CustomerID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByHostWithFilter(ctx context.Context, filter domain.HostBookingsFilter) ([]*domain.Booking, error) {
	f.lastHostFilter = filter
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.HostID == filter.HostID {
			result = append(result, b)
		}
	}
	return result, nil
}

func TestGetByID_AccessControl(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: {ID: 1, CustomerID: 100, HostID: 200, Status: domain.StatusConfirmed},
	}}
	service := NewService(repo, nopLogger{})

	t.Run("customer sees own booking", func(t *testing.T) {
		booking, err := service.GetByID(context.Background(), 1, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1), booking.ID)
	})

	t.Run("host sees booking on own listing", func(t *testing.T) {
		booking, err := service.GetByID(context.Background(), 1, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(1), booking.ID)
	})

	t.Run("third party is denied", func(t *testing.T) {
		_, err := service.GetByID(context.Background(), 1, 300)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := service.GetByID(context.Background(), 99, 100)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGetCustomerBookings(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: {ID: 1, CustomerID: 100, HostID: 200},
		2: {ID: 2, CustomerID: 101, HostID: 200},
	}}
	service := NewService(repo, nopLogger{})

	result, err := service.GetCustomerBookings(context.Background(), domain.CustomerBookingsFilter{CustomerID: 100})
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestGetCustomerBookings_InvalidStatus(t *testing.T) {
	service := NewService(&fakeBookingRepo{}, nopLogger{})

	bad := domain.BookingStatus("shipped")
	_, err := service.GetCustomerBookings(context.Background(), domain.CustomerBookingsFilter{
		CustomerID: 100,
		Status:     &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestGetHostBookings_InvalidPeriod(t *testing.T) {
	service := NewService(&fakeBookingRepo{}, nopLogger{})

	from := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(-24 * time.Hour)

	_, err := service.GetHostBookings(context.Background(), domain.HostBookingsFilter{
		HostID:    200,
		StartFrom: &from,
		StartTo:   &to,
	})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestGetHostBookings_PassesFilterThrough(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	service := NewService(repo, nopLogger{})

	status := domain.StatusPending
	filter := domain.HostBookingsFilter{
		HostID:    200,
		ListingID: ptr.Ptr(int64(5)),
		Status:    &status,
	}

	_, err := service.GetHostBookings(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, filter, repo.lastHostFilter)
}
