package events

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPForwarder republishes bus events to a RabbitMQ topic exchange, using
// the event topic as routing key. Delivery is best effort: a failed publish
// is logged and the event dropped, since the backend already holds the
// authoritative record.
type AMQPForwarder struct {
	url      string
	exchange string
	timeout  time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPForwarder dials the broker and declares a durable topic exchange
func NewAMQPForwarder(url, exchange string) (*AMQPForwarder, error) {
	f := &AMQPForwarder{url: url, exchange: exchange, timeout: 5 * time.Second}
	if err := f.connect(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *AMQPForwarder) connect() error {
	conn, err := amqp.Dial(f.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		f.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", f.exchange, err)
	}
	f.conn, f.ch = conn, ch
	return nil
}

// Attach subscribes the forwarder to every topic on the bus
func (f *AMQPForwarder) Attach(bus *Bus) {
	bus.Subscribe("*", func(ctx context.Context, e Event) {
		if err := f.Forward(ctx, e); err != nil {
			log.Printf("events: failed to forward %s to RabbitMQ: %v", e.Topic, err)
		}
	})
}

// Forward publishes one event, reconnecting once if the channel was closed
func (f *AMQPForwarder) Forward(ctx context.Context, e Event) error {
	body, err := e.Body()
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Timestamp:    e.OccurredAt,
		Type:         e.Topic,
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ch == nil || f.ch.IsClosed() {
		if f.conn != nil {
			f.conn.Close()
		}
		if err := f.connect(); err != nil {
			return err
		}
	}
	return f.ch.PublishWithContext(ctx, f.exchange, e.Topic, false, false, msg)
}

// Close closes the channel and connection
func (f *AMQPForwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ch != nil {
		f.ch.Close()
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
