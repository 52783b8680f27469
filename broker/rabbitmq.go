package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "restaurant_events"

// Routing keys published on Exchange.
const (
	OrderCreated             = "order.created"
	OrderStatusChanged       = "order.status_changed"
	ReservationCreated       = "reservation.created"
	ReservationCancelled     = "reservation.cancelled"
	ReservationCompleted     = "reservation.completed"
	ReservationStatusChanged = "reservation.status_changed"
)

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

func NewEvent(routingKey string, payload any) Event {
	return Event{Type: routingKey, OccurredAt: time.Now().UTC(), Payload: payload}
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *slog.Logger

	mu sync.Mutex
}

func Connect(url string, log *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	log.Info("connected to rabbitmq", "exchange", Exchange)
	return &RabbitMQ{conn: conn, channel: channel, log: log}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(ctx,
		Exchange,   // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    event.OccurredAt,
			Body:         body,
		})
	if err != nil {
		return err
	}

	r.log.Debug("event published", "routing_key", event.Type)
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
