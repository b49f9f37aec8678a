package queries

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
)

// MemberAll disables the family member filter.
const MemberAll = "All"

// Filter holds the independent filter dimensions of the list view. The zero
// value matches every item.
type Filter struct {
	// Member is "All", "Me" or a family member name. "Me" also matches items
	// without an owner.
	Member string
	// Categories matches items in any of the categories.
	Categories []string
	// Interests matches items tagged with every interest.
	Interests []string
	// Keywords must all match; each one may match the title, description,
	// location or category.
	Keywords []string

	// Date filters only ever match completed items, using completedAt.
	Year   int
	Month  time.Month
	Season domain.Season
}

// HasDateFilter reports whether any completion date filter is set.
func (f Filter) HasDateFilter() bool {
	return f.Year != 0 || f.Month != 0 || f.Season != ""
}

// ApplyFilter returns the items matching every active dimension, in input
// order. Completion dates are bucketed in loc.
func ApplyFilter(items []*domain.Item, f Filter, loc *time.Location) []*domain.Item {
	keywords := make([]string, 0, len(f.Keywords))
	for _, k := range f.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}

	out := make([]*domain.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if !matchesMember(it, f.Member) ||
			!matchesCategory(it, f.Categories) ||
			!matchesInterests(it, f.Interests) ||
			!matchesKeywords(it, keywords) ||
			!matchesDate(it, f, loc) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchesMember(it *domain.Item, member string) bool {
	member = strings.TrimSpace(member)
	if member == "" || strings.EqualFold(member, MemberAll) {
		return true
	}
	return strings.EqualFold(it.OwnerOrDefault(), member)
}

func matchesCategory(it *domain.Item, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(it.Category)) {
			return true
		}
	}
	return false
}

func matchesInterests(it *domain.Item, interests []string) bool {
	for _, interest := range interests {
		if !it.HasInterest(interest) {
			return false
		}
	}
	return true
}

func matchesKeywords(it *domain.Item, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	fields := []string{
		strings.ToLower(it.Title),
		strings.ToLower(it.Description),
		strings.ToLower(it.LocationName),
		strings.ToLower(it.Category),
	}
	for _, k := range keywords {
		found := false
		for _, field := range fields {
			if strings.Contains(field, k) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesDate(it *domain.Item, f Filter, loc *time.Location) bool {
	if !f.HasDateFilter() {
		return true
	}
	if !it.Completed || it.CompletedAt.IsZero() {
		return false
	}

	t := it.CompletedAt.In(loc)
	if f.Year != 0 && t.Year() != f.Year {
		return false
	}
	if f.Month != 0 && t.Month() != f.Month {
		return false
	}
	if f.Season != "" && domain.SeasonOf(t.Month()) != f.Season {
		return false
	}
	return true
}
