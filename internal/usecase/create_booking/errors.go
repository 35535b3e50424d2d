package create_booking

import "errors"

var (
	// ErrListingNotFound возвращается, когда объявление не найдено
	ErrListingNotFound = errors.New("create_booking: listing not found")

	// ErrSoldOut возвращается, когда в слоте недостаточно свободных мест
	ErrSoldOut = errors.New("create_booking: not enough capacity in slot")

	// ErrPaymentDeclined возвращается, когда платеж отклонен провайдером
	// и политика объявления требует отмены бронирования
	ErrPaymentDeclined = errors.New("create_booking: payment declined")

	// ErrBookingInPast возвращается, когда запрошенное время начала уже прошло
	ErrBookingInPast = errors.New("create_booking: start time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
