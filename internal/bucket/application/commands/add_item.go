package commands

import (
	"context"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

// AddItemCommand contains the data needed to add an item. The draft carries
// the descriptive fields, either typed by the user or produced by the
// drafting service.
type AddItemCommand struct {
	Draft     domain.Draft
	Type      domain.Type
	Owner     string
	DueDate   domain.Timestamp
	StartDate domain.Timestamp
	EndDate   domain.Timestamp
}

// AddItemResult contains the result of adding an item.
type AddItemResult struct {
	Item *domain.Item
}

// AddItemHandler handles the AddItemCommand.
type AddItemHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
	now       Clock
}

// NewAddItemHandler creates a new AddItemHandler.
func NewAddItemHandler(repo domain.Repository, publisher eventbus.EventPublisher, now Clock) *AddItemHandler {
	return &AddItemHandler{repo: repo, publisher: publisher, now: clockOrNow(now)}
}

// Handle executes the AddItemCommand. Nothing is stored when validation
// fails.
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) (*AddItemResult, error) {
	item, err := domain.Materialize(&cmd.Draft, cmd.Type, h.now())
	if err != nil {
		return nil, err
	}
	if err := item.SetTripDates(cmd.StartDate, cmd.EndDate); err != nil {
		return nil, err
	}
	item.DueDate = cmd.DueDate
	item.Owner = cmd.Owner

	existing, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckTitleUnique(existing, item.Title, ""); err != nil {
		return nil, err
	}

	if err := h.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason:  domain.ChangeAdded,
		ItemIDs: []string{item.ID},
		Total:   len(existing) + 1,
	})
	return &AddItemResult{Item: item}, nil
}
