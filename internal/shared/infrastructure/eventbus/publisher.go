package eventbus

import (
	"context"
	"log/slog"
)

// Publisher hands raw payloads to a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// EventPublisher publishes enveloped events. Command handlers depend on this
// instead of a concrete bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *ConsumedEvent) error
}

// NoopPublisher stands in for the broker when RABBITMQ_URL is not set. Pushes
// and forwarded item changes are logged at debug level and dropped.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.DebugContext(ctx, "broker disabled, dropping message",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
