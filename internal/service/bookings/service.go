package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/nowtown/NT-BookingService/internal/domain"
	storage "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
)

// Service read-side сервис бронирований: получение по ID и выборки списков
// Мутации жизненного цикла живут в usecase-слое, здесь только чтение
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID возвращает бронирование, доступное запрашивающему пользователю
// Видят бронирование только две стороны сделки: клиент и хост объявления
func (s *Service) GetByID(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings.service: GetByID - get booking: %w", err)
	}

	if booking.CustomerID != requesterID && booking.HostID != requesterID {
		s.logger.Warn("bookings: user %d denied access to booking %d", requesterID, bookingID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// GetCustomerBookings возвращает историю бронирований пользователя
func (s *Service) GetCustomerBookings(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error) {
	if err := validateStatusFilter(filter.Status); err != nil {
		return nil, err
	}

	result, err := s.bookingRepo.GetByCustomer(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("bookings.service: GetCustomerBookings - query: %w", err)
	}

	return result, nil
}

// GetHostBookings возвращает бронирования по объявлениям хоста
func (s *Service) GetHostBookings(ctx context.Context, filter domain.HostBookingsFilter) ([]*domain.Booking, error) {
	if err := validateStatusFilter(filter.Status); err != nil {
		return nil, err
	}
	if filter.StartFrom != nil && filter.StartTo != nil && filter.StartTo.Before(*filter.StartFrom) {
		return nil, fmt.Errorf("%w: period end before period start", ErrInvalidFilter)
	}

	result, err := s.bookingRepo.GetByHostWithFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("bookings.service: GetHostBookings - query: %w", err)
	}

	return result, nil
}

func validateStatusFilter(status *domain.BookingStatus) error {
	if status != nil && !domain.IsValidStatus(*status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, *status)
	}
	return nil
}
