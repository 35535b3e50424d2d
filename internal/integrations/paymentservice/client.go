package paymentservice

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного провайдера
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного провайдера
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NewIdempotencyKey генерирует ключ идемпотентности для захвата платежа
// Ключ создается один раз на операцию и не меняется при её повторах
func NewIdempotencyKey() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand не возвращает ошибок на поддерживаемых платформах
		panic(fmt.Sprintf("paymentservice: failed to generate idempotency key: %v", err))
	}
	return hex.EncodeToString(buf)
}

// CapturePayment захватывает платеж на указанную сумму
// Отклонение платежа провайдером возвращается как ErrPaymentDeclined,
// чтобы вызывающая сторона могла отличить его от недоступности провайдера
func (c *Client) CapturePayment(ctx context.Context, req *CaptureRequest) (*CaptureResult, error) {
	url := fmt.Sprintf("%s/internal/payments/capture", c.baseURL)

	result, err := c.post(ctx, url, req, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var capture CaptureResult
	if err := json.Unmarshal(result, &capture); err != nil {
		return nil, fmt.Errorf("%w: failed to decode capture response: %v", ErrInvalidResponse, err)
	}

	if capture.Status != "captured" {
		c.log.Info("CapturePayment: declined for booking_id=%d, status=%s", req.BookingID, capture.Status)
		return nil, ErrPaymentDeclined
	}

	return &capture, nil
}

// Refund возвращает средства по ранее захваченному платежу
func (c *Client) Refund(ctx context.Context, req *RefundRequest) (*RefundResult, error) {
	url := fmt.Sprintf("%s/internal/payments/%s/refund", c.baseURL, req.PaymentID)

	result, err := c.post(ctx, url, req, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var refund RefundResult
	if err := json.Unmarshal(result, &refund); err != nil {
		return nil, fmt.Errorf("%w: failed to decode refund response: %v", ErrInvalidResponse, err)
	}

	return &refund, nil
}

func (c *Client) post(ctx context.Context, url string, payload interface{}, idempotencyKey string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrInvalidResponse, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return respBody, nil
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return nil, ErrPaymentDeclined
	case http.StatusNotFound:
		return nil, ErrPaymentNotFound
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
