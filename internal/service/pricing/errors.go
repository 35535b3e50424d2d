package pricing

import "errors"

var (
	// ErrInvalidParams возвращается при некорректных параметрах расчета
	// (неположительное количество, нулевая длительность и т.п.)
	ErrInvalidParams = errors.New("pricing: invalid parameters")

	// ErrBelowMinimumDuration возвращается, когда длительность бронирования
	// space-объявления ниже минимального порога
	ErrBelowMinimumDuration = errors.New("pricing: duration below listing minimum")

	// ErrQuantityExceedsCapacity возвращается, когда количество превышает
	// вместимость объявления
	ErrQuantityExceedsCapacity = errors.New("pricing: quantity exceeds listing capacity")

	// ErrUnknownPricingUnit возвращается при неизвестной единице тарификации
	ErrUnknownPricingUnit = errors.New("pricing: unknown pricing unit")
)
