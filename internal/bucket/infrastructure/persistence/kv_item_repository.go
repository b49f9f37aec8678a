package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

// KVItemRepository implements domain.Repository on a key-value store. The
// whole list lives under kv.KeyItems and is rewritten on every change.
type KVItemRepository struct {
	store kv.Store
	mu    sync.Mutex
}

// NewKVItemRepository creates a repository on top of store.
func NewKVItemRepository(store kv.Store) *KVItemRepository {
	return &KVItemRepository{store: store}
}

func (r *KVItemRepository) load(ctx context.Context) ([]*domain.Item, error) {
	var items []*domain.Item
	if _, err := r.store.Get(ctx, kv.KeyItems, &items); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	// drop null entries a hand-edited store may contain
	out := items[:0]
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *KVItemRepository) persist(ctx context.Context, items []*domain.Item) error {
	if items == nil {
		items = []*domain.Item{}
	}
	if err := r.store.Set(ctx, kv.KeyItems, items); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}

// FindAll returns every item in stored order.
func (r *KVItemRepository) FindAll(ctx context.Context) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// FindByID returns the item with the given id.
func (r *KVItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

// Save adds a new item at the front of the list or replaces it in place.
func (r *KVItemRepository) Save(ctx context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, it := range items {
		if it.ID == item.ID {
			items[i] = item
			return r.persist(ctx, items)
		}
	}
	return r.persist(ctx, append([]*domain.Item{item}, items...))
}

// Delete removes an item.
func (r *KVItemRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, it := range items {
		if it.ID == id {
			return r.persist(ctx, append(items[:i:i], items[i+1:]...))
		}
	}
	return domain.ErrItemNotFound
}

// ReplaceAll swaps the whole collection.
func (r *KVItemRepository) ReplaceAll(ctx context.Context, items []*domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persist(ctx, items)
}
