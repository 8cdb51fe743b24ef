package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event is a booking lifecycle notification handed to the email workers.
// Delivery is fire-and-forget from the engine's point of view: a publish
// failure is logged by the caller and never rolls back the state change.
type Event struct {
	BookingReference string    `json:"booking_reference"`
	EventType        string    `json:"event_type"` // created|approved|rejected|cancelled|rescheduled|restored|expired
	Actor            string    `json:"actor"`
	ClientEmail      string    `json:"client_email"`
	SessionID        uint      `json:"session_id"`
	Reason           string    `json:"reason,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Dispatcher enqueues lifecycle events for the notification workers.
type Dispatcher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// AMQPDispatcher publishes events to a RabbitMQ topic exchange with routing
// keys of the form "booking.<event_type>".
type AMQPDispatcher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPDispatcher connects to RabbitMQ and declares the topic exchange.
func NewAMQPDispatcher(url, exchange string) (*AMQPDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPDispatcher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (d *AMQPDispatcher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return d.ch.PublishWithContext(ctx, d.exchange, "booking."+ev.EventType, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (d *AMQPDispatcher) Close() error {
	if d.ch != nil {
		_ = d.ch.Close()
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

// Noop discards events. Used when no broker is configured and in tests.
type Noop struct{}

func (Noop) Publish(ctx context.Context, ev Event) error { return nil }
func (Noop) Close() error                                { return nil }

// Recorder collects published events in memory for test assertions.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(ctx context.Context, ev Event) error {
	r.Events = append(r.Events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }
