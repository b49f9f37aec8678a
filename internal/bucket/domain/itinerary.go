package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

// ItineraryStop is one place to visit within a destination or road trip.
// Stops are owned by their parent item and their order is the visiting order.
type ItineraryStop struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Coordinates *geo.Coordinates `json:"coordinates,omitempty"`
	Completed   bool             `json:"completed"`
	Tags        []string         `json:"tags,omitempty"`
}

func (s ItineraryStop) clone() ItineraryStop {
	c := s
	if s.Coordinates != nil {
		coords := *s.Coordinates
		c.Coordinates = &coords
	}
	if s.Tags != nil {
		c.Tags = append([]string{}, s.Tags...)
	}
	return c
}

// AddStop appends a stop to the end of the itinerary.
func (i *Item) AddStop(stop ItineraryStop) error {
	stop.Name = strings.TrimSpace(stop.Name)
	if stop.Name == "" {
		return ErrEmptyTitle
	}
	if stop.ID == "" {
		stop.ID = NewID()
	}
	i.Itinerary = append(i.Itinerary, stop)
	return nil
}

// CompleteStop marks the stop at index as visited. When spawn is true a new,
// separate completed item representing the visited place is returned; it is
// not linked back to this item.
func (i *Item) CompleteStop(index int, at, now time.Time, spawn bool) (*Item, error) {
	if index < 0 || index >= len(i.Itinerary) {
		return nil, ErrStopNotFound
	}
	if at.IsZero() {
		return nil, ErrCompletedAtRequired
	}
	if at.After(now) {
		return nil, ErrCompletedInFuture
	}

	stop := &i.Itinerary[index]
	stop.Completed = true

	if !spawn {
		return nil, nil
	}

	visited, err := NewItem(stop.Name, TypeDestination, now)
	if err != nil {
		return nil, err
	}
	visited.Description = stop.Description
	if visited.Description == "" {
		visited.Description = fmt.Sprintf("Visited during %s", i.Title)
	}
	visited.LocationName = stop.Name
	if stop.Coordinates != nil {
		coords := *stop.Coordinates
		visited.Coordinates = &coords
	}
	visited.Category = i.Category
	visited.Owner = i.Owner
	visited.Interests = CleanTags(stop.Tags)
	if err := visited.Complete(at, now); err != nil {
		return nil, err
	}
	return visited, nil
}

// ReopenStop marks the stop at index as not visited.
func (i *Item) ReopenStop(index int) error {
	if index < 0 || index >= len(i.Itinerary) {
		return ErrStopNotFound
	}
	i.Itinerary[index].Completed = false
	return nil
}

// MoveStop moves the stop at from to position to, shifting the others.
func (i *Item) MoveStop(from, to int) error {
	n := len(i.Itinerary)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrStopNotFound
	}
	if from == to {
		return nil
	}
	stop := i.Itinerary[from]
	rest := append(i.Itinerary[:from:from], i.Itinerary[from+1:]...)
	moved := make([]ItineraryStop, 0, n)
	moved = append(moved, rest[:to]...)
	moved = append(moved, stop)
	moved = append(moved, rest[to:]...)
	i.Itinerary = moved
	return nil
}

// StopProgress returns the number of visited stops and the total.
func (i *Item) StopProgress() (done, total int) {
	for _, s := range i.Itinerary {
		if s.Completed {
			done++
		}
	}
	return done, len(i.Itinerary)
}
