package domain

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoadTrip(t *testing.T) *Item {
	t.Helper()
	trip, err := NewItem("Route 66", TypeRoadTrip, testNow)
	require.NoError(t, err)
	trip.Category = "Travel"
	trip.Owner = "Sam"
	for _, name := range []string{"Chicago", "St. Louis", "Tulsa", "Santa Monica"} {
		require.NoError(t, trip.AddStop(ItineraryStop{
			Name:        name,
			Coordinates: &geo.Coordinates{Latitude: 40, Longitude: -90},
			Tags:        []string{"road"},
		}))
	}
	return trip
}

func TestItem_AddStop(t *testing.T) {
	trip := newRoadTrip(t)
	assert.Len(t, trip.Itinerary, 4)
	assert.NotEmpty(t, trip.Itinerary[0].ID)

	err := trip.AddStop(ItineraryStop{Name: "  "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestItem_CompleteStop(t *testing.T) {
	at := testNow.Add(-time.Hour)

	t.Run("without spawn", func(t *testing.T) {
		trip := newRoadTrip(t)
		visited, err := trip.CompleteStop(1, at, testNow, false)
		require.NoError(t, err)
		assert.Nil(t, visited)
		assert.True(t, trip.Itinerary[1].Completed)

		done, total := trip.StopProgress()
		assert.Equal(t, 1, done)
		assert.Equal(t, 4, total)
	})

	t.Run("with spawn creates an independent item", func(t *testing.T) {
		trip := newRoadTrip(t)
		visited, err := trip.CompleteStop(2, at, testNow, true)
		require.NoError(t, err)
		require.NotNil(t, visited)

		assert.NotEqual(t, trip.ID, visited.ID)
		assert.Equal(t, "Tulsa", visited.Title)
		assert.Equal(t, TypeDestination, visited.Type)
		assert.True(t, visited.Completed)
		assert.Equal(t, TimestampOf(at), visited.CompletedAt)
		assert.Equal(t, "Travel", visited.Category)
		assert.Equal(t, "Sam", visited.Owner)
		assert.Equal(t, []string{"road"}, visited.Interests)
		assert.Equal(t, "Visited during Route 66", visited.Description)

		visited.Coordinates.Latitude = 1
		assert.Equal(t, float64(40), trip.Itinerary[2].Coordinates.Latitude)
	})

	t.Run("out of range", func(t *testing.T) {
		trip := newRoadTrip(t)
		_, err := trip.CompleteStop(9, at, testNow, false)
		assert.ErrorIs(t, err, ErrStopNotFound)
	})

	t.Run("requires completion time", func(t *testing.T) {
		trip := newRoadTrip(t)
		_, err := trip.CompleteStop(0, time.Time{}, testNow, true)
		assert.ErrorIs(t, err, ErrCompletedAtRequired)
		assert.False(t, trip.Itinerary[0].Completed)
	})
}

func TestItem_MoveStop(t *testing.T) {
	names := func(it *Item) []string {
		out := make([]string, 0, len(it.Itinerary))
		for _, s := range it.Itinerary {
			out = append(out, s.Name)
		}
		return out
	}

	t.Run("move forward", func(t *testing.T) {
		trip := newRoadTrip(t)
		require.NoError(t, trip.MoveStop(0, 2))
		assert.Equal(t, []string{"St. Louis", "Tulsa", "Chicago", "Santa Monica"}, names(trip))
	})

	t.Run("move backward", func(t *testing.T) {
		trip := newRoadTrip(t)
		require.NoError(t, trip.MoveStop(3, 0))
		assert.Equal(t, []string{"Santa Monica", "Chicago", "St. Louis", "Tulsa"}, names(trip))
	})

	t.Run("invalid index", func(t *testing.T) {
		trip := newRoadTrip(t)
		assert.ErrorIs(t, trip.MoveStop(0, 4), ErrStopNotFound)
	})
}

func TestMaterialize(t *testing.T) {
	t.Run("destination keeps location", func(t *testing.T) {
		draft := &Draft{
			Title:        "Machu Picchu",
			Description:  "Inca citadel",
			LocationName: "Cusco Region, Peru",
			Coordinates:  &geo.Coordinates{Latitude: -13.16, Longitude: -72.54},
			Images:       []string{"https://example.com/a.jpg", " "},
			Category:     "Adventure",
			Interests:    []string{"Hiking", "history", "hiking"},
			Itinerary:    []ItineraryStop{{Name: "Aguas Calientes", Completed: true}, {Name: ""}},
		}
		item, err := Materialize(draft, TypeDestination, testNow)
		require.NoError(t, err)

		assert.Equal(t, "Machu Picchu", item.Title)
		assert.Equal(t, "Cusco Region, Peru", item.LocationName)
		require.NotNil(t, item.Coordinates)
		assert.Equal(t, []string{"https://example.com/a.jpg"}, item.Images)
		assert.Equal(t, []string{"Hiking", "history"}, item.Interests)
		require.Len(t, item.Itinerary, 1)
		assert.False(t, item.Itinerary[0].Completed)
	})

	t.Run("goal drops location", func(t *testing.T) {
		draft := &Draft{Title: "Learn Italian", LocationName: "Rome", Coordinates: &geo.Coordinates{Latitude: 41.9, Longitude: 12.5}}
		item, err := Materialize(draft, TypeGoal, testNow)
		require.NoError(t, err)
		assert.Empty(t, item.LocationName)
		assert.Nil(t, item.Coordinates)
	})

	t.Run("empty draft", func(t *testing.T) {
		_, err := Materialize(&Draft{}, TypeGoal, testNow)
		assert.ErrorIs(t, err, ErrEmptyTitle)
		_, err = Materialize(nil, TypeGoal, testNow)
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})
}

func TestFallbackDraft(t *testing.T) {
	d := FallbackDraft("  visit iceland ", []string{"Travel", "Food"})
	assert.Equal(t, "visit iceland", d.Title)
	assert.Equal(t, "Travel", d.Category)

	d = FallbackDraft("x", nil)
	assert.Empty(t, d.Category)
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeDestination, ParseType("Destination"))
	assert.Equal(t, TypeRoadTrip, ParseType("road-trip"))
	assert.Equal(t, TypeGoal, ParseType("unknown"))
}
