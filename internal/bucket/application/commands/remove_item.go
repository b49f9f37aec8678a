package commands

import (
	"context"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

// RemoveItemCommand deletes one item.
type RemoveItemCommand struct {
	ID string
}

// RemoveItemHandler handles the RemoveItemCommand.
type RemoveItemHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
}

// NewRemoveItemHandler creates a new RemoveItemHandler.
func NewRemoveItemHandler(repo domain.Repository, publisher eventbus.EventPublisher) *RemoveItemHandler {
	return &RemoveItemHandler{repo: repo, publisher: publisher}
}

// Handle executes the RemoveItemCommand.
func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) error {
	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return err
	}
	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason:  domain.ChangeRemoved,
		ItemIDs: []string{cmd.ID},
	})
	return nil
}

// ReplaceAllCommand swaps the whole collection. An empty list clears it.
type ReplaceAllCommand struct {
	Items []*domain.Item
	// Reason is reported in ItemsChanged; defaults to "replaced".
	Reason string
}

// ReplaceAllHandler handles the ReplaceAllCommand.
type ReplaceAllHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
}

// NewReplaceAllHandler creates a new ReplaceAllHandler.
func NewReplaceAllHandler(repo domain.Repository, publisher eventbus.EventPublisher) *ReplaceAllHandler {
	return &ReplaceAllHandler{repo: repo, publisher: publisher}
}

// Handle executes the ReplaceAllCommand.
func (h *ReplaceAllHandler) Handle(ctx context.Context, cmd ReplaceAllCommand) error {
	items := make([]*domain.Item, 0, len(cmd.Items))
	for _, it := range cmd.Items {
		if it != nil {
			items = append(items, it)
		}
	}
	if err := h.repo.ReplaceAll(ctx, items); err != nil {
		return err
	}

	reason := cmd.Reason
	if reason == "" {
		reason = domain.ChangeReplaced
	}
	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason: reason,
		Total:  len(items),
	})
	return nil
}
