package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"product-catalog/internal/catalog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const contentTypeJSON = "application/json"

// RabbitPublisher sends product lifecycle events to a durable queue on the
// default exchange. The event type travels in the AMQP Type property so
// consumers can route without decoding the body.
type RabbitPublisher struct {
	mu      sync.Mutex
	channel *amqp.Channel
	queue   string
}

func NewRabbitPublisher(conn *amqp.Connection, queue string) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}

	return &RabbitPublisher{
		channel: ch,
		queue:   queue,
	}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event catalog.ProductEvent) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	// amqp channels must not be shared between concurrent publishers.
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish %s for %s to %q: %w", event.EventType, event.ProductID, p.queue, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	return p.channel.Close()
}

func newPublishing(event catalog.ProductEvent) (amqp.Publishing, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}

	return amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         event.EventType,
		Timestamp:    event.Timestamp,
		Body:         payload,
	}, nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, catalog.ProductEvent) error {
	return nil
}
