package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

// CompleteItemCommand marks an item done. CompletedAt is required; trip
// dates may be recorded at the same time.
type CompleteItemCommand struct {
	ID          string
	CompletedAt time.Time
	StartDate   domain.Timestamp
	EndDate     domain.Timestamp
}

// CompleteItemHandler handles the CompleteItemCommand.
type CompleteItemHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
	now       Clock
}

// NewCompleteItemHandler creates a new CompleteItemHandler.
func NewCompleteItemHandler(repo domain.Repository, publisher eventbus.EventPublisher, now Clock) *CompleteItemHandler {
	return &CompleteItemHandler{repo: repo, publisher: publisher, now: clockOrNow(now)}
}

// Handle executes the CompleteItemCommand.
func (h *CompleteItemHandler) Handle(ctx context.Context, cmd CompleteItemCommand) (*domain.Item, error) {
	item, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if !cmd.StartDate.IsZero() || !cmd.EndDate.IsZero() {
		if err := item.SetTripDates(cmd.StartDate, cmd.EndDate); err != nil {
			return nil, err
		}
	}
	if err := item.Complete(cmd.CompletedAt, h.now()); err != nil {
		return nil, err
	}

	if err := h.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason:  domain.ChangeCompleted,
		ItemIDs: []string{item.ID},
	})
	return item, nil
}

// ReopenItemCommand marks an item as not done.
type ReopenItemCommand struct {
	ID string
}

// ReopenItemHandler handles the ReopenItemCommand.
type ReopenItemHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
}

// NewReopenItemHandler creates a new ReopenItemHandler.
func NewReopenItemHandler(repo domain.Repository, publisher eventbus.EventPublisher) *ReopenItemHandler {
	return &ReopenItemHandler{repo: repo, publisher: publisher}
}

// Handle executes the ReopenItemCommand.
func (h *ReopenItemHandler) Handle(ctx context.Context, cmd ReopenItemCommand) (*domain.Item, error) {
	item, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	item.Reopen()
	if err := h.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason:  domain.ChangeReopened,
		ItemIDs: []string{item.ID},
	})
	return item, nil
}
