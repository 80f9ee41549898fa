package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event names. Each one is a durable direct exchange with a queue of the same name.
const (
	OrderFinalizedEvent = "order.finalized"
	PaymentUpdatedEvent = "payment.updated"
)

// DLX routes messages rejected by downstream consumers to "<queue>.dlq".
//
// Why one shared DLX?
// → Each queue sets x-dead-letter-routing-key to its own name
// → The DLX routes by that key, so order.finalized rejects land in order.finalized.dlq
const DLX = "dlx"

var events = []string{OrderFinalizedEvent, PaymentUpdatedEvent}

// Connect dials RabbitMQ, opens a channel and declares the storefront topology.
// The returned func closes the channel and then the connection.
func Connect(user, pass, host, port string) (*amqp.Channel, func() error, error) {
	address := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(address)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	closeFn := func() error {
		if err := ch.Close(); err != nil {
			return err
		}
		return conn.Close()
	}

	return ch, closeFn, nil
}

// declareTopology is idempotent: redeclaring with the same arguments is a no-op.
//
// Why declare the DLQs before the main queues?
// → A message can be dead-lettered as soon as its queue exists
// → Without a bound DLQ the DLX drops it silently
//
// Why durable everything?
// → Exchanges and queues survive a broker restart
// → Messages are published Persistent, which only helps on durable queues
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLX, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLX exchange: %w", err)
	}

	for _, event := range events {
		if err := ch.ExchangeDeclare(event, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare %s exchange: %w", event, err)
		}

		dlq := event + ".dlq"
		if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare DLQ %s: %w", dlq, err)
		}
		if err := ch.QueueBind(dlq, event, DLX, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ %s to DLX: %w", dlq, err)
		}

		_, err := ch.QueueDeclare(event, true, false, false, false, amqp.Table{
			"x-dead-letter-exchange":    DLX,
			"x-dead-letter-routing-key": event,
		})
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", event, err)
		}
		if err := ch.QueueBind(event, "", event, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", event, err)
		}
	}

	return nil
}

// Channel is the publishing subset of *amqp.Channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher serialises events as JSON and publishes them with trace headers.
//
// Why the mutex?
// → An amqp.Channel must not be published on from two goroutines at once
// → Checkout handlers and the webhook run concurrently and share one Publisher
type Publisher struct {
	mu sync.Mutex
	ch Channel
}

func NewPublisher(ch Channel) *Publisher {
	return &Publisher{ch: ch}
}

func (p *Publisher) Publish(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, event, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Headers:      InjectTraceContext(ctx),
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}
	return nil
}
