package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Client wraps a RabbitMQ connection with one direct exchange and two
// queues: one for stats requests, one for results. Routing keys equal
// queue names.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	requestQueue string
	resultQueue  string
}

func NewClient(url, exchangeName, requestQueue, resultQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		requestQueue: requestQueue,
		resultQueue:  resultQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.requestQueue, c.resultQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		err = c.channel.QueueBind(
			queue,          // queue name
			queue,          // routing key (same as queue name for direct exchange)
			c.exchangeName, // exchange
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

// PublishStatsRequest publishes a report request for the worker.
func (c *Client) PublishStatsRequest(ctx context.Context, msg *StatsRequestMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, c.requestQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published stats request",
		"requestId", msg.RequestID,
		"carId", msg.CarID,
		"exchange", c.exchangeName,
		"queue", c.requestQueue)

	return nil
}

// PublishStatsResult publishes a computed report (or error) for the requester.
func (c *Client) PublishStatsResult(ctx context.Context, msg *StatsResultMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, c.resultQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published stats result",
		"requestId", msg.RequestID,
		"carId", msg.CarID,
		"queue", c.resultQueue)

	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// ConsumeStatsRequests consumes report requests with manual acknowledgement.
// A handler error nacks the delivery with requeue; a malformed body is
// rejected without requeue.
func (c *Client) ConsumeStatsRequests(ctx context.Context, handler func(*StatsRequestMessage) error) error {
	msgs, err := c.channel.Consume(
		c.requestQueue, // queue
		"",             // consumer
		false,          // auto-ack (we want manual ack)
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming stats requests", "queue", c.requestQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := StatsRequestMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			slog.InfoContext(ctx, "Processing stats request",
				"requestId", msg.RequestID,
				"carId", msg.CarID)

			if err := handler(msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err,
					"requestId", msg.RequestID)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
			slog.InfoContext(ctx, "Successfully processed stats request",
				"requestId", msg.RequestID)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
