package get_user_bookings

import (
	"context"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

type BookingsService interface {
	GetCustomerBookings(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
