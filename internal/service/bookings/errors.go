package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings.service: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не является
	// ни клиентом, ни хостом бронирования
	ErrAccessDenied = errors.New("bookings.service: access denied")

	// ErrInvalidFilter возвращается при некорректных параметрах фильтрации
	ErrInvalidFilter = errors.New("bookings.service: invalid filter")
)
