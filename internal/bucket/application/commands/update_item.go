package commands

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

// UpdateItemCommand replaces every mutable field of an item. Identity,
// creation time and completion state are kept.
type UpdateItemCommand struct {
	ID              string
	Title           string
	Description     string
	Type            domain.Type
	LocationName    string
	Coordinates     *geo.Coordinates
	Images          []string
	Category        string
	Interests       []string
	Owner           string
	BestTimeToVisit string
	DueDate         domain.Timestamp
	StartDate       domain.Timestamp
	EndDate         domain.Timestamp
	Itinerary       []domain.ItineraryStop
}

// UpdateItemCommandFrom prefills a command with the current item state, so
// callers only change what they edit.
func UpdateItemCommandFrom(item *domain.Item) UpdateItemCommand {
	c := item.Clone()
	return UpdateItemCommand{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Type:            c.Type,
		LocationName:    c.LocationName,
		Coordinates:     c.Coordinates,
		Images:          c.Images,
		Category:        c.Category,
		Interests:       c.Interests,
		Owner:           c.Owner,
		BestTimeToVisit: c.BestTimeToVisit,
		DueDate:         c.DueDate,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		Itinerary:       c.Itinerary,
	}
}

// UpdateItemHandler handles the UpdateItemCommand.
type UpdateItemHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
}

// NewUpdateItemHandler creates a new UpdateItemHandler.
func NewUpdateItemHandler(repo domain.Repository, publisher eventbus.EventPublisher) *UpdateItemHandler {
	return &UpdateItemHandler{repo: repo, publisher: publisher}
}

// Handle executes the UpdateItemCommand.
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand) (*domain.Item, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if !cmd.Type.IsValid() {
		return nil, domain.ErrInvalidType
	}
	if err := domain.ValidateTripDates(cmd.StartDate, cmd.EndDate); err != nil {
		return nil, err
	}

	items, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var current *domain.Item
	for _, it := range items {
		if it.ID == cmd.ID {
			current = it
			break
		}
	}
	if current == nil {
		return nil, domain.ErrItemNotFound
	}
	if err := domain.CheckTitleUnique(items, title, cmd.ID); err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.Title = title
	updated.Description = strings.TrimSpace(cmd.Description)
	updated.Type = cmd.Type
	updated.LocationName = strings.TrimSpace(cmd.LocationName)
	updated.Coordinates = nil
	if cmd.Coordinates.Valid() {
		coords := *cmd.Coordinates
		updated.Coordinates = &coords
	}
	updated.Images = append([]string{}, cmd.Images...)
	updated.Category = strings.TrimSpace(cmd.Category)
	updated.Interests = domain.CleanTags(cmd.Interests)
	updated.Owner = strings.TrimSpace(cmd.Owner)
	updated.BestTimeToVisit = strings.TrimSpace(cmd.BestTimeToVisit)
	updated.DueDate = cmd.DueDate
	updated.StartDate = cmd.StartDate
	updated.EndDate = cmd.EndDate
	updated.Itinerary = nil
	for _, stop := range cmd.Itinerary {
		if err := updated.AddStop(stop); err != nil {
			return nil, err
		}
	}

	if err := h.repo.Save(ctx, updated); err != nil {
		return nil, err
	}

	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason:  domain.ChangeUpdated,
		ItemIDs: []string{updated.ID},
		Total:   len(items),
	})
	return updated, nil
}
