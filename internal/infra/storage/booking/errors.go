package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStaleStatus возвращается, когда CAS-переход статуса не прошел:
	// текущий статус бронирования уже не совпадает с ожидаемым
	ErrStaleStatus = errors.New("booking.repository: booking status changed concurrently")

	// ErrDuplicateConfirmation возвращается при коллизии номера подтверждения
	// Вызывающая сторона генерирует новый номер и повторяет запись
	ErrDuplicateConfirmation = errors.New("booking.repository: confirmation number already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
