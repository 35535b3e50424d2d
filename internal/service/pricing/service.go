package pricing

import (
	"fmt"
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	"github.com/nowtown/NT-BookingService/internal/integrations/listingservice"
	"github.com/nowtown/NT-BookingService/pkg/money"
)

// Service калькулятор цены бронирования
// Детерминированный: одинаковые входные данные всегда дают одинаковую разбивку
type Service struct {
	rates  Rates
	logger Logger
}

// NewService создает новый экземпляр сервиса расчета цены
func NewService(rates Rates, logger Logger) *Service {
	return &Service{
		rates:  rates,
		logger: logger,
	}
}

// Quote рассчитывает разбивку цены для запроса бронирования
//
// База = цена за единицу × количество единиц. Единицы зависят от тарификации:
// билеты и сессии считаются по Quantity, часы и дни - по интервалу
// StartAt..EndAt с округлением вверх до целой единицы.
//
// Сервисный сбор берется от базы по ставке тарифного плана хоста,
// НДС - от базы вместе со сбором. Total = Base + ServiceFee + Tax всегда.
//
// earlyBird = true подставляет early-bird цену за единицу вместо базовой;
// решение о применении скидки принимает вызывающая сторона (под блокировкой
// ledger), здесь только арифметика
func (s *Service) Quote(listing *listingservice.Listing, params Params, earlyBird bool) (*domain.PriceBreakdown, error) {
	// Количество значимо для всех тарификаций: для часов и дней оно задает
	// число резервируемых мест, даже когда база считается по интервалу
	if params.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidParams, params.Quantity)
	}

	units, err := s.billableUnits(listing, params)
	if err != nil {
		return nil, err
	}

	if err := s.checkCapacity(listing, params.Quantity); err != nil {
		return nil, err
	}

	unitPrice := money.Amount(listing.BasePrice)
	applied := false
	if earlyBird && listing.EarlyBirdPrice != nil {
		unitPrice = money.Amount(*listing.EarlyBirdPrice)
		applied = true
	}

	base := money.Mul(unitPrice, int64(units))
	fee := money.ApplyRate(base, s.rates.FeeFor(domain.HostPlan(listing.HostPlan)))
	tax := money.ApplyRate(base+fee, s.rates.VAT)

	return &domain.PriceBreakdown{
		Base:             base,
		ServiceFee:       fee,
		Tax:              tax,
		Total:            base + fee + tax,
		Currency:         listing.Currency,
		Units:            units,
		EarlyBirdApplied: applied,
	}, nil
}

// billableUnits считает количество тарифицируемых единиц
func (s *Service) billableUnits(listing *listingservice.Listing, params Params) (int, error) {
	switch domain.PricingUnit(listing.PricingUnit) {
	case domain.UnitPerTicket, domain.UnitPerSession:
		if params.Quantity > domain.MaxBookingQuantity {
			return 0, fmt.Errorf("%w: quantity %d exceeds maximum %d", ErrInvalidParams, params.Quantity, domain.MaxBookingQuantity)
		}
		return params.Quantity, nil

	case domain.UnitPerHour:
		hours, err := s.durationUnits(params, time.Hour)
		if err != nil {
			return 0, err
		}
		minHours := listing.MinBookingHours
		if minHours < domain.MinSpaceBookingHours {
			minHours = domain.MinSpaceBookingHours
		}
		if hours < minHours {
			return 0, fmt.Errorf("%w: %d hour(s) requested, listing minimum is %d", ErrBelowMinimumDuration, hours, minHours)
		}
		return hours, nil

	case domain.UnitPerDay:
		return s.durationUnits(params, 24*time.Hour)

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPricingUnit, listing.PricingUnit)
	}
}

// durationUnits считает единицы длительности с округлением вверх
func (s *Service) durationUnits(params Params, unit time.Duration) (int, error) {
	d := params.EndAt.Sub(params.StartAt)
	if d <= 0 {
		return 0, fmt.Errorf("%w: end time must be after start time", ErrInvalidParams)
	}
	units := int((d + unit - 1) / unit)
	return units, nil
}

// checkCapacity проверяет, что количество не превышает вместимость объявления
// Это ранняя валидация формы запроса; фактическая проверка остатка мест
// выполняется атомарно на уровне ledger
func (s *Service) checkCapacity(listing *listingservice.Listing, quantity int) error {
	if listing.Capacity == nil {
		return nil
	}
	if quantity > *listing.Capacity {
		return fmt.Errorf("%w: requested %d, capacity %d", ErrQuantityExceedsCapacity, quantity, *listing.Capacity)
	}
	return nil
}
