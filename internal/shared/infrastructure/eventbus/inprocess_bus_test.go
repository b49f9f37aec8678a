package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

type itemsChanged struct {
	Reason string `json:"reason"`
	Total  int    `json:"total"`
}

func TestNewEvent(t *testing.T) {
	ctx := observability.WithCorrelationID(context.Background(), "corr-1")

	event, err := eventbus.NewEvent(ctx, "bucket.items.changed", itemsChanged{Reason: "add", Total: 3})
	require.NoError(t, err)

	assert.Equal(t, "bucket.items.changed", event.RoutingKey)
	assert.Equal(t, "corr-1", event.Metadata.CorrelationID)
	assert.False(t, event.OccurredAt.IsZero())

	var payload itemsChanged
	require.NoError(t, event.Decode(&payload))
	assert.Equal(t, itemsChanged{Reason: "add", Total: 3}, payload)

	_, err = eventbus.NewEvent(ctx, "bad", make(chan int))
	assert.Error(t, err)
}

func TestInProcessEventBus_PublishEvent(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	consumer := &mockConsumer{eventTypes: []string{"bucket.items.changed"}}
	bus.RegisterConsumer(consumer)

	event, err := eventbus.NewEvent(context.Background(), "bucket.items.changed", itemsChanged{Reason: "remove"})
	require.NoError(t, err)
	require.NoError(t, bus.PublishEvent(context.Background(), event))

	require.Len(t, consumer.events, 1)
	assert.Equal(t, event.EventID, consumer.events[0].EventID)
}

func TestInProcessEventBus_PublishEncoded(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	consumer := &mockConsumer{eventTypes: []string{"bucket.items.changed"}}
	bus.RegisterConsumer(consumer)

	event, err := eventbus.NewEvent(context.Background(), "", itemsChanged{Reason: "import"})
	require.NoError(t, err)
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "bucket.items.changed", payload))
	require.Len(t, consumer.events, 1)
	assert.Equal(t, "bucket.items.changed", consumer.events[0].RoutingKey)

	require.NoError(t, bus.Publish(context.Background(), "bucket.items.changed", []byte("not json")))
	assert.Len(t, consumer.events, 1)
}

func TestInProcessEventBus_ConsumerErrorIsSwallowed(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	consumer := &mockConsumer{eventTypes: []string{"bucket.items.changed"}, err: errors.New("boom")}
	bus.RegisterConsumer(consumer)

	err := bus.PublishEvent(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "bucket.items.changed"})
	require.NoError(t, err)
	assert.Len(t, consumer.events, 1)
	assert.NoError(t, bus.Close())
	assert.NotNil(t, bus.Registry())
}

type recordingPublisher struct {
	mu       sync.Mutex
	keys     []string
	payloads [][]byte
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestBrokerForwarder(t *testing.T) {
	pub := &recordingPublisher{}
	bus := eventbus.NewInProcessEventBus(nil)
	bus.RegisterConsumer(eventbus.NewBrokerForwarder(pub, nil, "bucket.items.changed"))

	event, err := eventbus.NewEvent(context.Background(), "bucket.items.changed", itemsChanged{Total: 1})
	require.NoError(t, err)
	require.NoError(t, bus.PublishEvent(context.Background(), event))

	require.Equal(t, []string{"bucket.items.changed"}, pub.keys)
	var forwarded eventbus.ConsumedEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &forwarded))
	assert.Equal(t, event.EventID, forwarded.EventID)
}

func TestNoopPublisher(t *testing.T) {
	p := eventbus.NewNoopPublisher(nil)
	assert.NoError(t, p.Publish(context.Background(), "x", []byte("{}")))
	assert.NoError(t, p.Close())
}
