package queries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type itemOpt func(*domain.Item)

func owner(name string) itemOpt {
	return func(i *domain.Item) { i.Owner = name }
}

func category(name string) itemOpt {
	return func(i *domain.Item) { i.Category = name }
}

func interests(tags ...string) itemOpt {
	return func(i *domain.Item) { i.Interests = tags }
}

func describe(text string) itemOpt {
	return func(i *domain.Item) { i.Description = text }
}

func place(name string, lat, lng float64) itemOpt {
	return func(i *domain.Item) {
		i.Type = domain.TypeDestination
		i.LocationName = name
		i.Coordinates = &geo.Coordinates{Latitude: lat, Longitude: lng}
	}
}

func createdAt(t time.Time) itemOpt {
	return func(i *domain.Item) { i.CreatedAt = domain.TimestampOf(t) }
}

func doneAt(t time.Time) itemOpt {
	return func(i *domain.Item) {
		i.Completed = true
		i.CompletedAt = domain.TimestampOf(t)
	}
}

func newItem(title string, opts ...itemOpt) *domain.Item {
	item := &domain.Item{
		ID:        title,
		Title:     title,
		Type:      domain.TypeGoal,
		Images:    []string{},
		Interests: []string{},
		CreatedAt: domain.TimestampOf(testNow.Add(-30 * domain.Day)),
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

func titles(items []*domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestApplyFilter_Member(t *testing.T) {
	items := []*domain.Item{
		newItem("unowned"),
		newItem("mine", owner("Me")),
		newItem("alex", owner("Alex")),
	}

	assert.Equal(t, []string{"unowned", "mine", "alex"}, titles(ApplyFilter(items, Filter{}, time.UTC)))
	assert.Equal(t, []string{"unowned", "mine", "alex"}, titles(ApplyFilter(items, Filter{Member: MemberAll}, time.UTC)))
	assert.Equal(t, []string{"unowned", "mine"}, titles(ApplyFilter(items, Filter{Member: "Me"}, time.UTC)))
	assert.Equal(t, []string{"alex"}, titles(ApplyFilter(items, Filter{Member: "alex"}, time.UTC)))
}

func TestApplyFilter_CategoriesAreOr(t *testing.T) {
	items := []*domain.Item{
		newItem("a", category("Travel")),
		newItem("b", category("Food")),
		newItem("c", category("Fitness")),
		newItem("d"),
	}

	got := ApplyFilter(items, Filter{Categories: []string{"travel", "Food"}}, time.UTC)
	assert.Equal(t, []string{"a", "b"}, titles(got))
}

func TestApplyFilter_InterestsAreAnd(t *testing.T) {
	items := []*domain.Item{
		newItem("A", interests("Hiking")),
		newItem("B", interests("Hiking", "Nature")),
	}

	got := ApplyFilter(items, Filter{Interests: []string{"Hiking", "Nature"}}, time.UTC)
	assert.Equal(t, []string{"B"}, titles(got))
}

func TestApplyFilter_Keywords(t *testing.T) {
	items := []*domain.Item{
		newItem("Climb Kilimanjaro", place("Tanzania", -3.07, 37.35), category("Adventure")),
		newItem("Safari", describe("See the big five in Tanzania")),
		newItem("Learn pottery", category("Craft")),
	}

	assert.Equal(t, []string{"Climb Kilimanjaro", "Safari"},
		titles(ApplyFilter(items, Filter{Keywords: []string{"tanzania"}}, time.UTC)))
	assert.Equal(t, []string{"Climb Kilimanjaro"},
		titles(ApplyFilter(items, Filter{Keywords: []string{"TANZANIA", "adventure"}}, time.UTC)))
	assert.Equal(t, []string{"Climb Kilimanjaro", "Safari", "Learn pottery"},
		titles(ApplyFilter(items, Filter{Keywords: []string{"  ", ""}}, time.UTC)))
	assert.Empty(t, ApplyFilter(items, Filter{Keywords: []string{"craft", "tanzania"}}, time.UTC))
}

func TestApplyFilter_DateFiltersUseCompletion(t *testing.T) {
	items := []*domain.Item{
		newItem("open", createdAt(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC))),
		newItem("july 2023", doneAt(time.Date(2023, 7, 14, 10, 0, 0, 0, time.UTC))),
		newItem("jan 2024", doneAt(time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC))),
		newItem("march 2024", doneAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))),
		{ID: "undated", Title: "undated", Completed: true},
	}

	assert.Equal(t, []string{"july 2023"}, titles(ApplyFilter(items, Filter{Year: 2023}, time.UTC)))
	assert.Equal(t, []string{"jan 2024"}, titles(ApplyFilter(items, Filter{Month: time.January}, time.UTC)))
	assert.Equal(t, []string{"jan 2024"}, titles(ApplyFilter(items, Filter{Season: domain.SeasonWinter}, time.UTC)))
	assert.Equal(t, []string{"march 2024"}, titles(ApplyFilter(items, Filter{Year: 2024, Season: domain.SeasonSpring}, time.UTC)))
	assert.Empty(t, ApplyFilter(items, Filter{Year: 2023, Month: time.March}, time.UTC))
}

func TestApplyFilter_DateUsesLocation(t *testing.T) {
	// 2024-03-01 02:00 UTC is still February in New York.
	items := []*domain.Item{newItem("edge", doneAt(time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)))}
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	assert.Len(t, ApplyFilter(items, Filter{Season: domain.SeasonSpring}, time.UTC), 1)
	assert.Len(t, ApplyFilter(items, Filter{Season: domain.SeasonWinter}, ny), 1)
}
