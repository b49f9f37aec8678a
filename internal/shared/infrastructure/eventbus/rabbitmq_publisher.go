package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

const (
	// ExchangeName is the topic exchange item changes and proximity pushes
	// are published to.
	ExchangeName = "bucketlist.events"

	appID = "bucketlist"
)

var errPublisherClosed = errors.New("rabbitmq publisher is closed")

// RabbitMQPublisher publishes persistent JSON messages to ExchangeName. The
// correlation id of the publishing command travels in CorrelationId so a
// companion device can tie a push back to the radar run that sent it.
type RabbitMQPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
	now     func() time.Time
}

// NewRabbitMQPublisher dials url and declares the durable topic exchange.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}

	logger.Debug("rabbitmq publisher connected", "exchange", ExchangeName)
	return &RabbitMQPublisher{
		conn:    conn,
		channel: ch,
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return errPublisherClosed
	}

	msg := amqp.Publishing{
		AppId:         appID,
		MessageId:     uuid.NewString(),
		CorrelationId: observability.CorrelationIDFromContext(ctx),
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     p.now().UTC(),
		Type:          routingKey,
		Body:          payload,
	}
	if err := p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, msg); err != nil {
		p.logger.ErrorContext(ctx, "rabbitmq publish failed", "routing_key", routingKey, "error", err)
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.logger.DebugContext(ctx, "message published",
		"routing_key", routingKey,
		"message_id", msg.MessageId,
		"size", len(payload),
	)
	return nil
}

// Close closes the channel and connection. Calling it twice is safe.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("closing rabbitmq channel", "error", err)
		}
		p.channel = nil
	}
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
