package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"product-catalog/internal/catalog"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	consumerTag   = "catalog-notifications"
	prefetchCount = 16
)

// Consumer drains catalog events from a durable queue and records each one
// in the structured log. Messages that cannot be decoded are dropped rather
// than requeued, since redelivery would fail the same way.
type Consumer struct {
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
}

func NewConsumer(conn *amqp.Connection, queue string, logger *slog.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}

	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	return &Consumer{
		channel: ch,
		queue:   queue,
		logger:  logger,
	}, nil
}

func (c *Consumer) Listen(ctx context.Context) error {
	msgs, err := c.channel.Consume(c.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue %q: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}

			if err := c.handle(msg.MessageId, msg.Body); err != nil {
				c.logger.Warn("dropping catalog event", "message_id", msg.MessageId, "error", err)
				_ = msg.Nack(false, false)
				continue
			}

			_ = msg.Ack(false)
		}
	}
}

func (c *Consumer) handle(messageID string, body []byte) error {
	event, err := decodeEvent(body)
	if err != nil {
		return err
	}

	attrs := []slog.Attr{
		slog.String("message_id", messageID),
		slog.String("event_type", event.EventType),
		slog.String("product_id", event.ProductID),
		slog.Time("timestamp", event.Timestamp),
	}
	if event.EventType != catalog.EventDeleted {
		attrs = append(attrs,
			slog.String("name", event.Name),
			slog.String("category", event.Category),
			slog.Float64("price", event.Price),
		)
	}
	c.logger.LogAttrs(context.Background(), slog.LevelInfo, "catalog event", attrs...)
	return nil
}

func decodeEvent(body []byte) (catalog.ProductEvent, error) {
	var event catalog.ProductEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return catalog.ProductEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}

	switch event.EventType {
	case catalog.EventCreated, catalog.EventUpdated, catalog.EventDeleted:
	default:
		return catalog.ProductEvent{}, fmt.Errorf("unknown event type %q", event.EventType)
	}
	if event.ProductID == "" {
		return catalog.ProductEvent{}, fmt.Errorf("event %s has no product id", event.EventType)
	}

	return event, nil
}

func (c *Consumer) Close() error {
	return c.channel.Close()
}
