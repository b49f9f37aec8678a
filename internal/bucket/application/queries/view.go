package queries

import (
	"cmp"
	"math"
	"slices"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

// ListFilter selects which half of the list is shown.
type ListFilter string

const (
	ListActive    ListFilter = "active"
	ListCompleted ListFilter = "completed"
)

// SortMode selects the list ordering.
type SortMode string

const (
	SortByDate     SortMode = "date"
	SortByDistance SortMode = "distance"
)

// Counts are the aggregate completion counts of a filtered set.
type Counts struct {
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// CountItems counts done and pending items. Percent is 0 for an empty set.
func CountItems(items []*domain.Item) Counts {
	var c Counts
	for _, it := range items {
		if it == nil {
			continue
		}
		c.Total++
		if it.Completed {
			c.Done++
		}
	}
	c.Pending = c.Total - c.Done
	c.Percent = percent(c.Done, c.Total)
	return c
}

// SortView keeps the items of one list half and orders them. Date mode puts
// the most recent completion (completed list) or creation (active list)
// first. Distance mode needs a valid user location and otherwise falls back
// to date mode; items without coordinates follow the located ones in their
// original order. All sorting is stable.
func SortView(items []*domain.Item, list ListFilter, mode SortMode, userLoc *geo.Coordinates) []*domain.Item {
	wantCompleted := list == ListCompleted
	out := make([]*domain.Item, 0, len(items))
	for _, it := range items {
		if it != nil && it.Completed == wantCompleted {
			out = append(out, it)
		}
	}

	if mode == SortByDistance && userLoc.Valid() {
		slices.SortStableFunc(out, func(a, b *domain.Item) int {
			aOK, bOK := a.HasLocation(), b.HasLocation()
			switch {
			case aOK && bOK:
				return cmp.Compare(geo.DistanceMeters(userLoc, a.Coordinates), geo.DistanceMeters(userLoc, b.Coordinates))
			case aOK:
				return -1
			case bOK:
				return 1
			}
			return 0
		})
		return out
	}

	slices.SortStableFunc(out, func(a, b *domain.Item) int {
		if wantCompleted {
			return cmp.Compare(b.CompletedAt, a.CompletedAt)
		}
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return out
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
