package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys событий жизненного цикла бронирования
const (
	EventBookingCreated      = "booking.created"
	EventBookingConfirmed    = "booking.confirmed"
	EventBookingCancelled    = "booking.cancelled"
	EventBookingCompleted    = "booking.completed"
	EventBookingRefundFailed = "booking.refund_failed"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в topic exchange RabbitMQ
// Все публикации fire-and-forget: ошибка публикации логируется,
// но никогда не проваливает операцию бронирования
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      Logger
}

// NewPublisher подключается к RabbitMQ и объявляет exchange
func NewPublisher(url, exchange string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notifications: rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("notifications: rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("notifications: exchange declare: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// Publish публикует событие с указанным routing key
// Ошибки логируются и не возвращаются: доставка уведомлений не входит
// в транзакционные гарантии бронирования
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("notifications: failed to marshal %s payload: %v", routingKey, err)
		return
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		p.log.Error("notifications: failed to publish %s: %v", routingKey, err)
		return
	}

	p.log.Info("notifications: published %s to exchange %s", routingKey, p.exchange)
}

// Close закрывает соединение с RabbitMQ
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher заглушка, используется когда RabbitMQ выключен в конфигурации
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) {}

// BookingEvent полезная нагрузка событий бронирования
type BookingEvent struct {
	BookingID  int64  `json:"booking_id"`
	ListingID  int64  `json:"listing_id"`
	CustomerID int64  `json:"customer_id"`
	HostID     int64  `json:"host_id"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"` // RFC3339
}
