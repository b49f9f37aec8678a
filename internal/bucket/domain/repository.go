package domain

import "context"

// Repository defines the interface for bucket item persistence. The whole
// collection is the unit of storage; order is the stored list order.
type Repository interface {
	// FindAll returns every item in stored order.
	FindAll(ctx context.Context) ([]*Item, error)

	// FindByID returns the item with the given id or ErrItemNotFound.
	FindByID(ctx context.Context, id string) (*Item, error)

	// Save adds a new item at the front of the list or replaces the item
	// with the same id in place.
	Save(ctx context.Context, item *Item) error

	// Delete removes an item. Deleting a missing id returns ErrItemNotFound.
	Delete(ctx context.Context, id string) error

	// ReplaceAll swaps the whole collection (import, restore, clear).
	ReplaceAll(ctx context.Context, items []*Item) error
}
