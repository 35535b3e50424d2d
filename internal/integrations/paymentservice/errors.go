package paymentservice

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда провайдер отклонил платеж
	ErrPaymentDeclined = errors.New("payment declined by provider")

	// ErrPaymentNotFound возвращается, когда платеж не найден (при возврате)
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")
)
