package create_booking

import (
	"fmt"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
)

// validateRequest проверяет форму запроса до обращения к внешним сервисам
// Тарифная валидация (минимальная длительность, вместимость) живет в pricing
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id must be positive", ErrInvalidInput)
	}
	if req.ListingID <= 0 {
		return fmt.Errorf("%w: listing_id must be positive", ErrInvalidInput)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if req.Quantity > domain.MaxBookingQuantity {
		return fmt.Errorf("%w: quantity exceeds maximum of %d", ErrInvalidInput, domain.MaxBookingQuantity)
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return fmt.Errorf("%w: start_at and end_at are required", ErrInvalidInput)
	}
	if !req.EndAt.After(req.StartAt) {
		return fmt.Errorf("%w: end_at must be after start_at", ErrInvalidInput)
	}
	return nil
}

// validateStartInFuture проверяет, что бронирование начинается в будущем
func validateStartInFuture(startAt, now time.Time) error {
	if !startAt.After(now) {
		return ErrBookingInPast
	}
	return nil
}
