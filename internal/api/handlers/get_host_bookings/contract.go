package get_host_bookings

import (
	"context"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

type BookingsService interface {
	GetHostBookings(ctx context.Context, filter domain.HostBookingsFilter) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
