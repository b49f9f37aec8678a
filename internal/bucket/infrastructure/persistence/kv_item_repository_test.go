package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newItem(t *testing.T, title string) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(title, domain.TypeDestination, testNow)
	require.NoError(t, err)
	return item
}

func titles(items []*domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestKVItemRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewKVItemRepository(kv.NewMemoryStore())

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	paris := newItem(t, "Paris")
	paris.Coordinates = &geo.Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	rome := newItem(t, "Rome")

	require.NoError(t, repo.Save(ctx, paris))
	require.NoError(t, repo.Save(ctx, rome))

	items, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rome", "Paris"}, titles(items), "new items go to the front")

	paris.Title = "Paris, France"
	require.NoError(t, repo.Save(ctx, paris))
	items, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rome", "Paris, France"}, titles(items), "updates keep position")

	found, err := repo.FindByID(ctx, paris.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Coordinates)
	assert.InDelta(t, 48.8566, found.Coordinates.Latitude, 1e-9)
	assert.Equal(t, domain.TimestampOf(testNow), found.CreatedAt)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	require.NoError(t, repo.Delete(ctx, rome.ID))
	assert.ErrorIs(t, repo.Delete(ctx, rome.ID), domain.ErrItemNotFound)

	require.NoError(t, repo.ReplaceAll(ctx, nil))
	items, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestKVItemRepository_ToleratesNullEntries(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kv.KeyItems, []any{nil, map[string]any{"id": "a", "title": "Lisbon", "type": "goal"}}))

	items, err := NewKVItemRepository(store).FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lisbon", items[0].Title)
}

type failingStore struct{ kv.Store }

func (failingStore) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("disk gone")
}

func TestKVItemRepository_StoreFailure(t *testing.T) {
	_, err := NewKVItemRepository(failingStore{}).FindAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}
