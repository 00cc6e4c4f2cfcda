package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// AMQPBroker publishes events to a topic exchange, routed by event type, and
// subscribes to them.
type AMQPBroker struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   *slog.Logger

	// amqp091 channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// DialAMQP connects to the broker at url and declares a durable topic exchange.
func DialAMQP(url, exchange string, logger *slog.Logger) (*AMQPBroker, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPBroker{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends e with its type as the routing key.
func (p *AMQPBroker) Publish(ctx context.Context, e Event) error {
	body, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,     // exchange
		string(e.Type), // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.At,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.DebugContext(ctx, "Published event",
		"type", e.Type,
		"trip_id", e.TripID,
		"entity_id", e.EntityID,
		"exchange", p.exchange,
	)
	return nil
}

// Subscribe binds a private queue to every event on the exchange and calls
// handler for each one until ctx is done. Undecodable messages and messages
// the handler rejects are dropped.
func (p *AMQPBroker) Subscribe(ctx context.Context, handler func(Event) error) error {
	p.mu.Lock()
	msgs, err := p.bindQueue()
	p.mu.Unlock()
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "Subscribed to events", "exchange", p.exchange)

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "Stopping event subscription", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("event channel closed")
			}
			p.dispatch(ctx, d, handler)
		}
	}
}

func (p *AMQPBroker) bindQueue() (<-chan amqp091.Delivery, error) {
	q, err := p.channel.QueueDeclare(
		"",    // name: broker-generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := p.channel.QueueBind(q.Name, "#", p.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := p.channel.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return msgs, nil
}

// dispatch decodes one delivery, hands it to handler and settles it.
func (p *AMQPBroker) dispatch(ctx context.Context, d amqp091.Delivery, handler func(Event) error) {
	e, err := Unmarshal(d.Body)
	if err != nil {
		p.logger.WarnContext(ctx, "Dropping undecodable event", "routing_key", d.RoutingKey, "error", err)
		d.Nack(false, false)
		return
	}

	if err := handler(e); err != nil {
		p.logger.WarnContext(ctx, "Event handler failed", "type", e.Type, "error", err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

// Close closes the channel and the connection.
func (p *AMQPBroker) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
