// Package domain contains the domain model for the bucket list.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrInvalidType         = errors.New("invalid item type")
	ErrDuplicateTitle      = errors.New("an item with this title already exists")
	ErrEndDateRequired     = errors.New("end date is required when a start date is set")
	ErrEndBeforeStart      = errors.New("end date cannot be before start date")
	ErrCompletedAtRequired = errors.New("completion date is required")
	ErrCompletedInFuture   = errors.New("completion date cannot be in the future")
	ErrItemNotFound        = errors.New("item not found")
	ErrStopNotFound        = errors.New("itinerary stop not found")
)

// DefaultOwner is the family member an item belongs to when no owner is set.
const DefaultOwner = "Me"

// Type determines whether location and itinerary fields are meaningful.
type Type string

const (
	TypeDestination Type = "destination"
	TypeRoadTrip    Type = "roadtrip"
	TypeGoal        Type = "goal"
)

// IsValid checks if the type is valid.
func (t Type) IsValid() bool {
	switch t {
	case TypeDestination, TypeRoadTrip, TypeGoal:
		return true
	default:
		return false
	}
}

// IsPlace reports whether items of this type carry a location.
func (t Type) IsPlace() bool {
	return t == TypeDestination || t == TypeRoadTrip
}

// Item is a single bucket list entry. Field names mirror the persisted JSON
// shape so the same value can be stored, exported and re-imported.
type Item struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Type            Type             `json:"type"`
	LocationName    string           `json:"locationName,omitempty"`
	Coordinates     *geo.Coordinates `json:"coordinates,omitempty"`
	Images          []string         `json:"images"`
	Completed       bool             `json:"completed"`
	CompletedAt     Timestamp        `json:"completedAt,omitempty"`
	CreatedAt       Timestamp        `json:"createdAt"`
	DueDate         Timestamp        `json:"dueDate,omitempty"`
	StartDate       Timestamp        `json:"startDate,omitempty"`
	EndDate         Timestamp        `json:"endDate,omitempty"`
	Category        string           `json:"category,omitempty"`
	Interests       []string         `json:"interests"`
	Owner           string           `json:"owner,omitempty"`
	BestTimeToVisit string           `json:"bestTimeToVisit,omitempty"`
	Itinerary       []ItineraryStop  `json:"itinerary,omitempty"`
}

// NewItem creates a new item with a generated id and creation time.
func NewItem(title string, itemType Type, now time.Time) (*Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !itemType.IsValid() {
		return nil, ErrInvalidType
	}

	return &Item{
		ID:        NewID(),
		Title:     title,
		Type:      itemType,
		Images:    []string{},
		Interests: []string{},
		CreatedAt: TimestampOf(now),
	}, nil
}

// NewID returns a fresh unique item id.
func NewID() string {
	return uuid.NewString()
}

// HasLocation reports whether the item can be placed on a map.
func (i *Item) HasLocation() bool {
	return i.Coordinates.Valid()
}

// OwnerOrDefault returns the owner, falling back to DefaultOwner.
func (i *Item) OwnerOrDefault() string {
	if strings.TrimSpace(i.Owner) == "" {
		return DefaultOwner
	}
	return i.Owner
}

// HasInterest reports whether the item is tagged with the interest.
func (i *Item) HasInterest(interest string) bool {
	for _, it := range i.Interests {
		if strings.EqualFold(strings.TrimSpace(it), strings.TrimSpace(interest)) {
			return true
		}
	}
	return false
}

// Complete marks the item as done at the given time. The caller must supply
// the completion time; it is never defaulted.
func (i *Item) Complete(at, now time.Time) error {
	if at.IsZero() {
		return ErrCompletedAtRequired
	}
	if at.After(now) {
		return ErrCompletedInFuture
	}
	i.Completed = true
	i.CompletedAt = TimestampOf(at)
	return nil
}

// Reopen marks the item as not done and clears the completion time.
func (i *Item) Reopen() {
	i.Completed = false
	i.CompletedAt = 0
}

// SetTripDates validates and sets the trip bounds.
func (i *Item) SetTripDates(start, end Timestamp) error {
	if err := ValidateTripDates(start, end); err != nil {
		return err
	}
	i.StartDate = start
	i.EndDate = end
	return nil
}

// ValidateTripDates checks that an end date accompanies a start date and is
// not before it.
func ValidateTripDates(start, end Timestamp) error {
	if !start.IsZero() && end.IsZero() {
		return ErrEndDateRequired
	}
	if !start.IsZero() && end < start {
		return ErrEndBeforeStart
	}
	return nil
}

// CheckTitleUnique returns ErrDuplicateTitle if another item (other than
// exceptID) has the same trimmed, case-insensitive title.
func CheckTitleUnique(items []*Item, title, exceptID string) error {
	key := normalize(title)
	for _, it := range items {
		if it == nil || it.ID == exceptID {
			continue
		}
		if normalize(it.Title) == key {
			return ErrDuplicateTitle
		}
	}
	return nil
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.Coordinates != nil {
		coords := *i.Coordinates
		c.Coordinates = &coords
	}
	c.Images = append([]string{}, i.Images...)
	c.Interests = append([]string{}, i.Interests...)
	if i.Itinerary != nil {
		c.Itinerary = make([]ItineraryStop, len(i.Itinerary))
		for idx, stop := range i.Itinerary {
			c.Itinerary[idx] = stop.clone()
		}
	}
	return &c
}

// CleanTags trims, drops empties and de-duplicates (case-insensitive) tags,
// keeping the first spelling.
func CleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[normalize(t)] {
			continue
		}
		seen[normalize(t)] = true
		out = append(out, t)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
