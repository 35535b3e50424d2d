package get_availability

import "time"

// Request входные данные для проверки доступности слота
type Request struct {
	ListingID int64
	SlotStart time.Time
}

// Response снимок доступности слота
// Снимок информационный: он может устареть к моменту создания бронирования,
// гарантию дает только атомарное резервирование
type Response struct {
	ListingID int64
	SlotStart time.Time

	// Unlimited = true для объявлений без ограничения вместимости;
	// AvailableUnits при этом не заполняется
	Unlimited      bool
	TotalUnits     int
	ReservedUnits  int
	AvailableUnits *int

	// EarlyBirdRemaining - остаток скидочной квоты, 0 если скидки нет
	EarlyBirdRemaining int
}
