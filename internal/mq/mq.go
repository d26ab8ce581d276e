package mq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"flood-watch/internal/logger"
)

// Exchange and queue/routing key constants.
const (
	ExchangeName = "floodwatch"

	RoutingBroadcast = "broadcast.send"

	QueueBroadcast = "floodwatch.broadcast"
)

// ── Message types ────────────────────────────────────────────────────

// BroadcastMsg is published by the server when an operator sends a broadcast.
type BroadcastMsg struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	District string    `json:"district"` // empty for all districts
	SentAt   time.Time `json:"sent_at"`
}

// ── Topology setup ───────────────────────────────────────────────────

// queues maps queue names to their routing keys.
var queues = map[string]string{
	QueueBroadcast: RoutingBroadcast,
}

// SetupTopology declares the exchange, all queues, and bindings.
// Safe to call multiple times (all declarations are idempotent).
func SetupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	for queue, key := range queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, key, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}
	return nil
}

// ── Publisher ────────────────────────────────────────────────────────

// Publisher publishes messages to the RabbitMQ exchange.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher connects to RabbitMQ, sets up topology, and returns a Publisher.
func NewPublisher(ctx context.Context, url string) (*Publisher, error) {
	conn, ch, err := open(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// Publish serializes msg to JSON and publishes it with the given routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg any) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         data,
	})
}

// ErrClosed is reported by Check once the broker connection is gone.
var ErrClosed = errors.New("rabbitmq connection closed")

// IsClosed reports whether the underlying connection has gone away.
func (p *Publisher) IsClosed() bool {
	return p.conn == nil || p.conn.IsClosed()
}

// Check reports ErrClosed when the connection has gone away, for health reporting.
func (p *Publisher) Check(context.Context) error {
	if p.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// ── Consumer ─────────────────────────────────────────────────────────

// Consumer consumes messages from RabbitMQ queues.
type Consumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewConsumer connects to RabbitMQ, sets up topology, and returns a Consumer.
func NewConsumer(ctx context.Context, url string) (*Consumer, error) {
	conn, ch, err := open(ctx, url)
	if err != nil {
		return nil, err
	}
	// Process one message at a time per consumer.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &Consumer{conn: conn, ch: ch}, nil
}

// Consume starts consuming from the given queue and returns a delivery channel.
func (c *Consumer) Consume(queue string) (<-chan amqp.Delivery, error) {
	return c.ch.Consume(queue, "", false, false, false, false, nil)
}

// Close closes the channel and connection.
func (c *Consumer) Close() {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// ── Helpers ──────────────────────────────────────────────────────────

// Encode marshals a message body.
func Encode(msg any) ([]byte, error) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return data, nil
}

// Decode unmarshals a message body.
func Decode(body []byte, msg any) error {
	if err := sonic.Unmarshal(body, msg); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}

func open(ctx context.Context, url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := dialWithRetry(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := SetupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// dialWithRetry attempts to connect to RabbitMQ with exponential backoff.
func dialWithRetry(ctx context.Context, url string) (*amqp.Connection, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2

	var conn *amqp.Connection
	attempt := 0
	err := backoff.RetryNotify(
		func() error {
			attempt++
			var err error
			conn, err = amqp.Dial(url)
			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(b, 4), ctx),
		func(err error, wait time.Duration) {
			logger.Warnf(ctx, "mq: connection attempt %d failed: %v, retrying in %s", attempt, err, wait)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", attempt, err)
	}
	return conn, nil
}
