package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

// EventConsumer handles specific event types.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles,
	// e.g. ["bucket.items.changed"].
	EventTypes() []string

	// Handle processes the event.
	Handle(ctx context.Context, event *ConsumedEvent) error
}

// ConsumedEvent is the envelope every event travels in, in process or over
// the broker.
type ConsumedEvent struct {
	EventID    uuid.UUID       `json:"event_id"`
	RoutingKey string          `json:"routing_key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
	Metadata   EventMetadata   `json:"metadata,omitempty"`
}

// EventMetadata contains optional metadata about the event.
type EventMetadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
}

// NewEvent wraps payload in an envelope. The correlation id is taken from ctx.
func NewEvent(ctx context.Context, routingKey string, payload any) (*ConsumedEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", routingKey, err)
	}
	return &ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: routingKey,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
		Metadata: EventMetadata{
			CorrelationID: observability.CorrelationIDFromContext(ctx),
		},
	}, nil
}

// Decode unmarshals the event payload into dest.
func (e *ConsumedEvent) Decode(dest any) error {
	if err := json.Unmarshal(e.Payload, dest); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.RoutingKey, err)
	}
	return nil
}
