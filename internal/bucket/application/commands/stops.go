package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

// CompleteStopCommand marks an itinerary stop as visited. With Spawn set a
// separate completed destination item is added for the stop.
type CompleteStopCommand struct {
	ItemID      string
	StopIndex   int
	CompletedAt time.Time
	Spawn       bool
}

// CompleteStopResult contains the result of completing a stop.
type CompleteStopResult struct {
	Item    *domain.Item
	Spawned *domain.Item
}

// CompleteStopHandler handles the CompleteStopCommand.
type CompleteStopHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
	now       Clock
}

// NewCompleteStopHandler creates a new CompleteStopHandler.
func NewCompleteStopHandler(repo domain.Repository, publisher eventbus.EventPublisher, now Clock) *CompleteStopHandler {
	return &CompleteStopHandler{repo: repo, publisher: publisher, now: clockOrNow(now)}
}

// Handle executes the CompleteStopCommand.
func (h *CompleteStopHandler) Handle(ctx context.Context, cmd CompleteStopCommand) (*CompleteStopResult, error) {
	item, err := h.repo.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}

	spawned, err := item.CompleteStop(cmd.StopIndex, cmd.CompletedAt, h.now(), cmd.Spawn)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	ids := []string{item.ID}
	if spawned != nil {
		if err := h.repo.Save(ctx, spawned); err != nil {
			return nil, err
		}
		ids = append(ids, spawned.ID)
	}

	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason:  domain.ChangeCompleted,
		ItemIDs: ids,
	})
	return &CompleteStopResult{Item: item, Spawned: spawned}, nil
}

// ReopenStopCommand marks an itinerary stop as not visited.
type ReopenStopCommand struct {
	ItemID    string
	StopIndex int
}

// ReopenStopHandler handles the ReopenStopCommand.
type ReopenStopHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
}

// NewReopenStopHandler creates a new ReopenStopHandler.
func NewReopenStopHandler(repo domain.Repository, publisher eventbus.EventPublisher) *ReopenStopHandler {
	return &ReopenStopHandler{repo: repo, publisher: publisher}
}

// Handle executes the ReopenStopCommand.
func (h *ReopenStopHandler) Handle(ctx context.Context, cmd ReopenStopCommand) (*domain.Item, error) {
	item, err := h.repo.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	if err := item.ReopenStop(cmd.StopIndex); err != nil {
		return nil, err
	}
	if err := h.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason:  domain.ChangeUpdated,
		ItemIDs: []string{item.ID},
	})
	return item, nil
}

// ReorderStopCommand moves an itinerary stop from one position to another.
type ReorderStopCommand struct {
	ItemID string
	From   int
	To     int
}

// ReorderStopHandler handles the ReorderStopCommand.
type ReorderStopHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
}

// NewReorderStopHandler creates a new ReorderStopHandler.
func NewReorderStopHandler(repo domain.Repository, publisher eventbus.EventPublisher) *ReorderStopHandler {
	return &ReorderStopHandler{repo: repo, publisher: publisher}
}

// Handle executes the ReorderStopCommand.
func (h *ReorderStopHandler) Handle(ctx context.Context, cmd ReorderStopCommand) (*domain.Item, error) {
	item, err := h.repo.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	if err := item.MoveStop(cmd.From, cmd.To); err != nil {
		return nil, err
	}
	if err := h.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason:  domain.ChangeUpdated,
		ItemIDs: []string{item.ID},
	})
	return item, nil
}
