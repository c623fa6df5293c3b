// Package amqp publishes shared statements to a RabbitMQ exchange for
// downstream delivery (mailers, chat bots).
package amqp

import (
	"context"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher is the subset of *amqp091.Channel used by Sink.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Client owns the AMQP connection and channel.
type Client struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// Dial connects to url and declares a durable direct exchange with a durable
// queue bound under routingKey.
func Dial(url, exchange, routingKey string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{conn: conn, channel: channel}
	if err := client.setup(exchange, routingKey); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup(exchange, routingKey string) error {
	err := c.channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		routingKey, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(routingKey, routingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// Channel returns the channel for publishing.
func (c *Client) Channel() *amqp091.Channel {
	return c.channel
}

// Close closes the channel and connection.
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
