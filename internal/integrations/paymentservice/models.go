package paymentservice

// CaptureRequest запрос на захват платежа
//
// IdempotencyKey передается провайдеру в заголовке Idempotency-Key:
// повторный запрос с тем же ключом не списывает деньги второй раз,
// провайдер возвращает результат первого захвата
type CaptureRequest struct {
	CustomerID int64  `json:"customer_id"`
	BookingID  int64  `json:"booking_id"`
	Amount     int64  `json:"amount"` // минорные единицы валюты
	Currency   string `json:"currency"`
	Method     string `json:"method"`

	IdempotencyKey string `json:"-"`
}

// CaptureResult результат захвата платежа
type CaptureResult struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"` // captured | declined
}

// RefundRequest запрос на возврат средств
type RefundRequest struct {
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"` // минорные единицы валюты

	IdempotencyKey string `json:"-"`
}

// RefundResult результат возврата средств
type RefundResult struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

// ErrorResponse модель ошибки от платежного провайдера
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
