package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

// ItemView is one row of the rendered list.
type ItemView struct {
	Item *domain.Item
	// DistanceMeters is set when both the user and the item are located.
	DistanceMeters float64
	HasDistance    bool
}

// ItemListView is the filtered, split and sorted list plus the counts of the
// filtered set (both halves).
type ItemListView struct {
	Items  []ItemView
	Counts Counts
}

// ListItemsQuery contains the parameters for listing items.
type ListItemsQuery struct {
	Filter       Filter
	List         ListFilter
	Sort         SortMode
	UserLocation *geo.Coordinates
}

// ListItemsHandler handles the ListItemsQuery.
type ListItemsHandler struct {
	repo domain.Repository
	loc  *time.Location
}

// NewListItemsHandler creates a new ListItemsHandler. Date filters bucket
// completions in loc; nil means time.Local.
func NewListItemsHandler(repo domain.Repository, loc *time.Location) *ListItemsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ListItemsHandler{repo: repo, loc: loc}
}

// Handle executes the ListItemsQuery.
func (h *ListItemsHandler) Handle(ctx context.Context, query ListItemsQuery) (*ItemListView, error) {
	items, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := ApplyFilter(items, query.Filter, h.loc)
	list := query.List
	if list == "" {
		list = ListActive
	}
	sorted := SortView(filtered, list, query.Sort, query.UserLocation)

	view := &ItemListView{
		Items:  make([]ItemView, 0, len(sorted)),
		Counts: CountItems(filtered),
	}
	for _, it := range sorted {
		row := ItemView{Item: it}
		if query.UserLocation.Valid() && it.HasLocation() {
			row.DistanceMeters = geo.DistanceMeters(query.UserLocation, it.Coordinates)
			row.HasDistance = true
		}
		view.Items = append(view.Items, row)
	}
	return view, nil
}
