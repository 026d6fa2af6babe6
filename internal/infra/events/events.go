// Package events публикует доменные события в RabbitMQ для модуля уведомлений.
// Публикация fire-and-forget: ошибки логируются и не влияют на исход
// бронирования или отмены, транзакционности с движком нет.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
)

// BookingConfirmedEvent публикуется при успешном бронировании
type BookingConfirmedEvent struct {
	BookingID    int64   `json:"booking_id"`
	UserID       int64   `json:"user_id"`
	ResourceID   int64   `json:"resource_id"`
	ResourceName string  `json:"resource_name"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Price        float64 `json:"price"`
	ConfirmedAt  string  `json:"confirmed_at"`
}

// BookingCancelledEvent публикуется при отмене бронирования
type BookingCancelledEvent struct {
	BookingID    int64   `json:"booking_id"`
	UserID       int64   `json:"user_id"`
	ResourceID   int64   `json:"resource_id"`
	ResourceName string  `json:"resource_name"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	RefundAmount float64 `json:"refund_amount"`
	Reason       string  `json:"reason"`
	CancelledAt  string  `json:"cancelled_at"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события в RabbitMQ
type Publisher struct {
	url string
	log Logger
}

// NewPublisher создает publisher. Соединение устанавливается на каждую
// публикацию: событий немного, а переподключение при обрыве получается даром.
func NewPublisher(url string, log Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// PublishBookingConfirmed отправляет событие подтверждения бронирования
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) {
	p.publish(ctx, QueueBookingConfirmed, event)
}

// PublishBookingCancelled отправляет событие отмены бронирования
func (p *Publisher) PublishBookingCancelled(ctx context.Context, event BookingCancelledEvent) {
	p.publish(ctx, QueueBookingCancelled, event)
}

func (p *Publisher) publish(ctx context.Context, queue string, event interface{}) {
	if p.url == "" {
		return // events disabled in config
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("events: dial %s failed: %v", queue, err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("events: channel open failed for %s: %v", queue, err)
		return
	}
	defer ch.Close()

	// Durable-очередь, объявление идемпотентно
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.Error("events: queue declare %s failed: %v", queue, err)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("events: marshal event for %s failed: %v", queue, err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.log.Error("events: publish to %s failed: %v", queue, err)
		return
	}

	p.log.Info("events: published to %s", queue)
}
