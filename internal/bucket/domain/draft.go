package domain

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

// Draft is a partially populated, not yet committed item, typically produced
// by the drafting service. Every field is optional.
type Draft struct {
	Title           string           `json:"title,omitempty"`
	Description     string           `json:"description,omitempty"`
	LocationName    string           `json:"locationName,omitempty"`
	Coordinates     *geo.Coordinates `json:"coordinates,omitempty"`
	Images          []string         `json:"images,omitempty"`
	Category        string           `json:"category,omitempty"`
	Interests       []string         `json:"interests,omitempty"`
	BestTimeToVisit string           `json:"bestTimeToVisit,omitempty"`
	Itinerary       []ItineraryStop  `json:"itinerary,omitempty"`
}

// FallbackDraft builds the minimal draft used when the drafting service is
// unavailable: the raw input as title and the first known category.
func FallbackDraft(input string, categories []string) *Draft {
	d := &Draft{Title: strings.TrimSpace(input)}
	if len(categories) > 0 {
		d.Category = categories[0]
	}
	return d
}

// Materialize turns a draft into a full item, filling required defaults.
// Location and itinerary data are dropped for goals.
func Materialize(d *Draft, itemType Type, now time.Time) (*Item, error) {
	if d == nil {
		return nil, ErrEmptyTitle
	}
	if !itemType.IsValid() {
		itemType = TypeGoal
	}

	item, err := NewItem(d.Title, itemType, now)
	if err != nil {
		return nil, err
	}

	item.Description = strings.TrimSpace(d.Description)
	item.Category = strings.TrimSpace(d.Category)
	item.Interests = CleanTags(d.Interests)
	item.BestTimeToVisit = strings.TrimSpace(d.BestTimeToVisit)
	for _, img := range d.Images {
		if img = strings.TrimSpace(img); img != "" {
			item.Images = append(item.Images, img)
		}
	}

	if !itemType.IsPlace() {
		return item, nil
	}

	item.LocationName = strings.TrimSpace(d.LocationName)
	if d.Coordinates.Valid() {
		coords := *d.Coordinates
		item.Coordinates = &coords
	}
	for _, stop := range d.Itinerary {
		stop.Completed = false
		// unnamed stops are dropped
		_ = item.AddStop(stop.clone())
	}
	return item, nil
}

// ParseType parses an item type, defaulting to goal for unknown values.
func ParseType(s string) Type {
	t := Type(normalize(s))
	if t == "road_trip" || t == "road-trip" {
		t = TypeRoadTrip
	}
	if !t.IsValid() {
		return TypeGoal
	}
	return t
}
