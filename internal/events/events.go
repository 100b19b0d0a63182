// Package events publishes lifecycle changes to a RabbitMQ topic exchange.
// The routing key is the event type.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const (
	SubscriptionCreated    = "subscription.created"
	SubscriptionCancelled  = "subscription.cancelled"
	SubscriptionExpired    = "subscription.expired"
	AppointmentScheduled   = "appointment.scheduled"
	AppointmentRescheduled = "appointment.rescheduled"
	AppointmentCancelled   = "appointment.cancelled"
	AppointmentCompleted   = "appointment.completed"
)

type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	UserID     uuid.UUID `json:"userId"`
	EntityID   uuid.UUID `json:"entityId"`
	Payload    any       `json:"payload,omitempty"`
}

func New(eventType string, userID, entityID uuid.UUID, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		UserID:     userID,
		EntityID:   entityID,
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Encode builds the persistent JSON message for e.
func Encode(e Event) (amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("events.Encode: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		Body:         body,
	}, nil
}

// channel and connection are the parts of *amqp.Channel and
// *amqp.Connection the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	NotifyClose(c chan *amqp.Error) chan *amqp.Error
	Close() error
}

type connection interface {
	Channel() (channel, error)
	Close() error
}

type amqpConnection struct{ *amqp.Connection }

func (c amqpConnection) Channel() (channel, error) { return c.Connection.Channel() }

func dialAMQP(url string) (connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

var ErrPublisherClosed = errors.New("events: publisher closed")

// AMQPPublisher publishes on one channel. When the broker closes the
// channel or connection, the next Publish dials again.
type AMQPPublisher struct {
	url      string
	exchange string
	dial     func(url string) (connection, error)

	mu       sync.Mutex
	conn     connection
	ch       channel
	closes   chan *amqp.Error
	shutdown bool
}

// DialAMQP connects and declares a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	return newAMQPPublisher(url, exchange, dialAMQP)
}

func newAMQPPublisher(url, exchange string, dial func(string) (connection, error)) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange, dial: dial}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("events.DialAMQP: %w", err)
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := p.dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return err
	}
	p.conn = conn
	p.ch = ch
	p.closes = ch.NotifyClose(make(chan *amqp.Error, 1))
	return nil
}

// alive reports whether the current channel is still open. A value or a
// close on the notify channel both mean it is gone.
func (p *AMQPPublisher) alive() bool {
	if p.ch == nil {
		return false
	}
	select {
	case <-p.closes:
		return false
	default:
		return true
	}
}

func (p *AMQPPublisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch, p.closes = nil, nil, nil
}

func (p *AMQPPublisher) reconnect() error {
	p.reset()
	if err := p.connect(); err != nil {
		return err
	}
	slog.Info("amqp publisher reconnected", "exchange", p.exchange)
	return nil
}

// Publish sends e with its type as routing key. A failed send on a stale
// channel is retried once on a fresh connection.
func (p *AMQPPublisher) Publish(_ context.Context, e Event) error {
	const op = "events.Publish"
	msg, err := Encode(e)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return fmt.Errorf("%s: %w", op, ErrPublisherClosed)
	}
	if !p.alive() {
		if err := p.reconnect(); err != nil {
			return fmt.Errorf("%s: reconnect: %w", op, err)
		}
	}

	err = p.ch.Publish(p.exchange, e.Type, false, false, msg)
	if err == nil {
		return nil
	}
	if rerr := p.reconnect(); rerr != nil {
		return fmt.Errorf("%s: %w (reconnect: %v)", op, err, rerr)
	}
	if err := p.ch.Publish(p.exchange, e.Type, false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdown = true
	if p.conn == nil {
		return nil
	}
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if cerr := p.conn.Close(); err == nil {
		err = cerr
	}
	p.conn, p.ch, p.closes = nil, nil, nil
	return err
}
