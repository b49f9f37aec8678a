package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

var (
	errNotInitialized = errors.New("application not initialized")
	errAmbiguousRef   = errors.New("item reference is ambiguous")
)

const dateLayout = "2006-01-02"

// resolveItem finds an item by full id, unique id prefix, or exact title
// (case-insensitive).
func resolveItem(ctx context.Context, repo domain.Repository, ref string) (*domain.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrItemNotFound
	}
	items, err := repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*domain.Item
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
		if strings.EqualFold(it.Title, ref) {
			return it, nil
		}
		if strings.HasPrefix(it.ID, ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d items", errAmbiguousRef, ref, len(matches))
	}
}

// parseDay parses a YYYY-MM-DD date in the local zone. "today" and an empty
// string both mean now.
func parseDay(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "today") {
		return now, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// parseOptionalDate parses a date flag; empty means unset. Plain dates are
// local midnight, other forms follow domain.ParseTimestamp.
func parseOptionalDate(s string) (domain.Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return domain.TimestampOf(t), nil
	}
	ts := domain.ParseTimestamp(s)
	if ts.IsZero() {
		return 0, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return ts, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func typeIcon(t domain.Type) string {
	switch t {
	case domain.TypeDestination:
		return "📍"
	case domain.TypeRoadTrip:
		return "🚗"
	default:
		return "🎯"
	}
}

func formatDate(ts domain.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Time().Local().Format(dateLayout)
}

// printItemDetail writes the full description of one item.
func printItemDetail(w io.Writer, it *domain.Item, unit geo.Unit, user *geo.Coordinates) {
	status := "pending"
	if it.Completed {
		status = "done " + formatDate(it.CompletedAt)
	}
	fmt.Fprintf(w, "%s %s\n", typeIcon(it.Type), it.Title)
	fmt.Fprintf(w, "  ID:       %s\n", it.ID)
	fmt.Fprintf(w, "  Type:     %s\n", it.Type)
	fmt.Fprintf(w, "  Status:   %s\n", status)
	fmt.Fprintf(w, "  Owner:    %s\n", it.OwnerOrDefault())
	if it.Category != "" {
		fmt.Fprintf(w, "  Category: %s\n", it.Category)
	}
	if len(it.Interests) > 0 {
		fmt.Fprintf(w, "  Tags:     %s\n", strings.Join(it.Interests, ", "))
	}
	if it.Description != "" {
		fmt.Fprintf(w, "  About:    %s\n", it.Description)
	}
	if it.LocationName != "" || it.HasLocation() {
		loc := it.LocationName
		if it.HasLocation() {
			loc = strings.TrimSpace(loc + " (" + it.Coordinates.String() + ")")
		}
		fmt.Fprintf(w, "  Where:    %s\n", loc)
		if user.Valid() && it.HasLocation() {
			fmt.Fprintf(w, "  Away:     %s\n", geo.FormatDistance(geo.DistanceMeters(user, it.Coordinates), unit))
		}
	}
	if it.BestTimeToVisit != "" {
		fmt.Fprintf(w, "  Best:     %s\n", it.BestTimeToVisit)
	}
	if !it.DueDate.IsZero() {
		fmt.Fprintf(w, "  Due:      %s\n", formatDate(it.DueDate))
	}
	if !it.EndDate.IsZero() {
		fmt.Fprintf(w, "  Trip:     %s → %s\n", formatDate(it.StartDate), formatDate(it.EndDate))
	}
	if len(it.Itinerary) > 0 {
		done, total := it.StopProgress()
		fmt.Fprintf(w, "  Itinerary (%d/%d):\n", done, total)
		for i, stop := range it.Itinerary {
			mark := "[ ]"
			if stop.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(w, "    %d. %s %s\n", i, mark, stop.Name)
		}
	}
}
