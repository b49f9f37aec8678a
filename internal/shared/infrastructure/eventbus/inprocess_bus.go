package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// InProcessEventBus delivers events synchronously to registered consumers.
// Consumer failures are logged and never propagate to the publisher, so a
// failing side effect (an auto-backup, say) cannot undo a committed change.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewInProcessEventBus creates a new in-process event bus.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer registers an event consumer.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes an encoded envelope and dispatches it. It implements
// Publisher so the bus can stand in for a broker.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event := &ConsumedEvent{}
	if err := json.Unmarshal(payload, event); err != nil {
		b.logger.ErrorContext(ctx, "failed to unmarshal event payload",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	return b.PublishEvent(ctx, event)
}

// PublishEvent dispatches an event to its consumers.
func (b *InProcessEventBus) PublishEvent(ctx context.Context, event *ConsumedEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.WarnContext(ctx, "event dispatch failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}

	b.logger.DebugContext(ctx, "event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Close is a no-op for in-process bus.
func (b *InProcessEventBus) Close() error {
	return nil
}

// Registry returns the underlying consumer registry.
func (b *InProcessEventBus) Registry() *ConsumerRegistry {
	return b.registry
}

// BrokerForwarder publishes every event it receives to a broker as well,
// letting companion devices observe item changes.
type BrokerForwarder struct {
	publisher  Publisher
	eventTypes []string
	logger     *slog.Logger
}

// NewBrokerForwarder forwards the given event types to publisher.
func NewBrokerForwarder(publisher Publisher, logger *slog.Logger, eventTypes ...string) *BrokerForwarder {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrokerForwarder{publisher: publisher, eventTypes: eventTypes, logger: logger}
}

// EventTypes implements EventConsumer.
func (f *BrokerForwarder) EventTypes() []string {
	return f.eventTypes
}

// Handle implements EventConsumer.
func (f *BrokerForwarder) Handle(ctx context.Context, event *ConsumedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return f.publisher.Publish(ctx, event.RoutingKey, payload)
}
