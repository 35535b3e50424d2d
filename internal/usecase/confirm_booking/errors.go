package confirm_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("confirm_booking: booking not found")

	// ErrAccessDenied возвращается, когда подтверждение запрашивает не хост объявления
	ErrAccessDenied = errors.New("confirm_booking: access denied")

	// ErrStaleStatus возвращается, когда бронирование уже покинуло pending
	// (отменено клиентом или фоновым проходом)
	ErrStaleStatus = errors.New("confirm_booking: booking is no longer pending")

	// ErrCapacityLost возвращается, когда резерв мест был освобожден до
	// подтверждения; бронирование при этом отменяется
	ErrCapacityLost = errors.New("confirm_booking: capacity reservation was lost")

	// ErrPaymentDeclined возвращается, когда платеж отклонен провайдером
	ErrPaymentDeclined = errors.New("confirm_booking: payment declined")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
