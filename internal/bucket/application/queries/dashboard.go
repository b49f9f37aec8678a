package queries

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

// Rank is the explorer tier derived from the cumulative explorer distance.
type Rank string

const (
	RankBeginner     Rank = "Beginner"
	RankVoyager      Rank = "Voyager"
	RankGlobetrotter Rank = "Globetrotter"
	RankLegend       Rank = "Legend"
)

// Rank thresholds in meters.
const (
	voyagerMeters      = 1_000_000
	globetrotterMeters = 5_000_000
	legendMeters       = 10_000_000
)

// RankFor maps an explorer distance to its tier.
func RankFor(meters float64) Rank {
	switch {
	case meters >= legendMeters:
		return RankLegend
	case meters >= globetrotterMeters:
		return RankGlobetrotter
	case meters >= voyagerMeters:
		return RankVoyager
	default:
		return RankBeginner
	}
}

// uncategorized labels completions without a category in the breakdown.
const uncategorized = "Uncategorized"

// recentLimit is the number of completions listed as recent.
const recentLimit = 5

// SeasonCount is one bucket of the seasonal histogram.
type SeasonCount struct {
	Season domain.Season `json:"season"`
	Count  int           `json:"count"`
}

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Dashboard holds the analytics derived from the full item list.
type Dashboard struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	// CompletionRate is completed/total in [0, 1].
	CompletionRate float64 `json:"completionRate"`

	// MonthlyCompletions counts this year's completions, January first.
	MonthlyCompletions [12]int       `json:"monthlyCompletions"`
	WeekdayCompletions int           `json:"weekdayCompletions"`
	WeekendCompletions int           `json:"weekendCompletions"`
	Seasons            []SeasonCount `json:"seasons"`

	AvgDaysToKnock   int `json:"avgDaysToKnock"`
	ItineraryPercent int `json:"itineraryPercent"`

	ExplorerDistanceMeters float64 `json:"explorerDistanceMeters"`
	Rank                   Rank    `json:"globalRank"`
	UniqueLocations        int     `json:"uniqueLocations"`

	Categories []CategoryCount `json:"categories"`
	Recent     []*domain.Item  `json:"recent"`
}

// BuildDashboard computes the dashboard from every item, ignoring any list
// filters. Calendar bucketing uses loc; nil means time.Local.
func BuildDashboard(items []*domain.Item, now time.Time, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.Local
	}
	year := now.In(loc).Year()

	d := Dashboard{Rank: RankBeginner}
	seasons := make(map[domain.Season]int, len(domain.Seasons))
	categories := make(map[string]int)
	locations := make(map[string]struct{})

	var (
		completed             []*domain.Item
		daysSum               float64
		daysCount             int
		stopsDone, stopsTotal int
	)

	for _, it := range items {
		if it == nil {
			continue
		}
		d.Total++

		if name := strings.TrimSpace(it.LocationName); name != "" {
			locations[name] = struct{}{}
		}
		if len(it.Itinerary) > 0 {
			done, total := it.StopProgress()
			stopsDone += done
			stopsTotal += total
		}

		if !it.Completed {
			continue
		}
		d.Completed++

		category := strings.TrimSpace(it.Category)
		if category == "" {
			category = uncategorized
		}
		categories[category]++

		if it.CompletedAt.IsZero() {
			continue
		}
		completed = append(completed, it)

		t := it.CompletedAt.In(loc)
		if t.Year() == year {
			d.MonthlyCompletions[t.Month()-1]++
		}
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			d.WeekendCompletions++
		} else {
			d.WeekdayCompletions++
		}
		seasons[domain.SeasonOf(t.Month())]++

		if !it.CreatedAt.IsZero() {
			daysSum += float64(it.CompletedAt-it.CreatedAt) / float64(domain.Day.Milliseconds())
			daysCount++
		}
	}

	if d.Total > 0 {
		d.CompletionRate = float64(d.Completed) / float64(d.Total)
	}
	if daysCount > 0 {
		d.AvgDaysToKnock = int(math.Round(daysSum / float64(daysCount)))
	}
	d.ItineraryPercent = percent(stopsDone, stopsTotal)
	d.UniqueLocations = len(locations)

	d.Seasons = make([]SeasonCount, 0, len(domain.Seasons))
	for _, s := range domain.Seasons {
		d.Seasons = append(d.Seasons, SeasonCount{Season: s, Count: seasons[s]})
	}

	d.Categories = make([]CategoryCount, 0, len(categories))
	for name, n := range categories {
		d.Categories = append(d.Categories, CategoryCount{Category: name, Count: n})
	}
	slices.SortFunc(d.Categories, func(a, b CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})

	slices.SortStableFunc(completed, func(a, b *domain.Item) int {
		return cmp.Compare(b.CompletedAt, a.CompletedAt)
	})
	d.ExplorerDistanceMeters = explorerDistance(completed)
	d.Rank = RankFor(d.ExplorerDistanceMeters)
	d.Recent = completed[:min(recentLimit, len(completed))]

	return d
}

// explorerDistance sums the distance between each pair of consecutive
// completions, newest first. A completion without coordinates contributes 0
// to both of its pairs.
func explorerDistance(completed []*domain.Item) float64 {
	var total float64
	for i := 1; i < len(completed); i++ {
		total += geo.DistanceMeters(completed[i-1].Coordinates, completed[i].Coordinates)
	}
	return total
}
