package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"ticketapi/internal/logging"
)

const (
	dialAttempts = 10
	dialBackoff  = 2 * time.Second
)

// AMQPPublisher publishes persistent JSON messages to a durable queue on the
// default exchange.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQPPublisher connects to url, retrying while the broker starts up, and
// declares queue.
func NewAMQPPublisher(ctx context.Context, url, queue string) (*AMQPPublisher, error) {
	if _, err := amqp.ParseURI(url); err != nil {
		return nil, fmt.Errorf("invalid AMQP URL: %w", err)
	}

	var (
		conn *amqp.Connection
		err  error
	)
	for i := 1; i <= dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logging.Warn("amqp", "amqp_dial_retry", err, map[string]any{"attempt": i, "max_attempts": dialAttempts})
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to RabbitMQ: %w", ctx.Err())
		case <-time.After(dialBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	logging.Info("amqp", "amqp_connected", map[string]any{"queue": queue})
	return &AMQPPublisher{conn: conn, channel: ch, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, id, topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		MessageId:    id,
		Type:         topic,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         payload,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("publish message %s: %w", id, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
