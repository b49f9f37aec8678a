package backup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/settings"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

type staticItems []*domain.Item

func (s staticItems) FindAll(context.Context) ([]*domain.Item, error) { return s, nil }

func TestAutoBackupConsumer(t *testing.T) {
	ctx := context.Background()
	items := staticItems(sampleItems(t))
	settingsSvc := settings.NewService(kv.NewMemoryStore())

	newEvent := func(reason string) *eventbus.ConsumedEvent {
		event, err := eventbus.NewEvent(ctx, domain.RoutingKeyItemsChanged, domain.ItemsChanged{Reason: reason})
		require.NoError(t, err)
		return event
	}

	t.Run("disabled by default", func(t *testing.T) {
		store := NewMemoryStore()
		c := NewAutoBackupConsumer(NewService(store, nil, nil, nil, nil), items, settingsSvc, nil, nil)
		require.NoError(t, c.Handle(ctx, newEvent(domain.ChangeAdded)))
		_, err := store.Get(ctx, FileName)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	_, err := settingsSvc.Set(ctx, settings.KeyAutoBackupEnabled, "true")
	require.NoError(t, err)

	t.Run("uploads when enabled", func(t *testing.T) {
		store := NewMemoryStore()
		c := NewAutoBackupConsumer(NewService(store, nil, nil, nil, nil), items, settingsSvc, nil, nil)
		assert.Equal(t, []string{domain.RoutingKeyItemsChanged}, c.EventTypes())

		require.NoError(t, c.Handle(ctx, newEvent(domain.ChangeAdded)))
		got, err := NewService(store, nil, nil, nil, nil).Get(ctx)
		require.NoError(t, err)
		assert.Len(t, got.Items, 2)
	})

	t.Run("skips restores", func(t *testing.T) {
		store := NewMemoryStore()
		c := NewAutoBackupConsumer(NewService(store, nil, nil, nil, nil), items, settingsSvc, nil, nil)
		require.NoError(t, c.Handle(ctx, newEvent(domain.ChangeRestored)))
		_, err := store.Get(ctx, FileName)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("dispatched through the bus", func(t *testing.T) {
		store := NewMemoryStore()
		bus := eventbus.NewInProcessEventBus(nil)
		bus.RegisterConsumer(NewAutoBackupConsumer(NewService(store, nil, nil, nil, nil), items, settingsSvc, nil, nil))

		require.NoError(t, bus.PublishEvent(ctx, newEvent(domain.ChangeRemoved)))
		_, err := store.Get(ctx, FileName)
		assert.NoError(t, err)
	})
}
