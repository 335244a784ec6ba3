package broker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/services"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Client publishes to one topic exchange with publisher confirms.
type Client struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string

	// ConfirmTimeout bounds the wait for the broker ack of one publish.
	ConfirmTimeout time.Duration
}

const defaultConfirmTimeout = 5 * time.Second

func Dial(url, exchange string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch, exchange: exchange, ConfirmTimeout: defaultConfirmTimeout}, nil
}

func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// PublishJSON sends body as a persistent JSON message and waits, at most
// ConfirmTimeout, for the broker ack of that message.
func (c *Client) PublishJSON(ctx context.Context, key string, body []byte, headers amqp.Table) error {
	timeout := c.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultConfirmTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, c.exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now(),
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return err
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return errors.New("publish NACK from broker")
	}
	return nil
}

// Publish implements services.EventPublisher. The routing key is the event type.
func (c *Client) Publish(ctx context.Context, ev services.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.PublishJSON(ctx, ev.Type, body, amqp.Table{"event_id": ev.ID})
}

var _ services.EventPublisher = (*Client)(nil)
