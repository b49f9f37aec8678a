// Package proximity implements the radar: it watches the user's location and
// alerts once per item per 24 hours when an open item comes within range.
package proximity

import (
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

// SuppressionWindow is the minimum gap between two alerts for the same item.
const SuppressionWindow = domain.Day

// Alert is an item that triggered in the current tick.
type Alert struct {
	Item           *domain.Item
	DistanceMeters float64
}

// Evaluate returns the open, located items within rangeMeters of location
// (inclusive) whose last alert is more than SuppressionWindow ago. Items are
// returned in list order. lastAlerted is not modified.
func Evaluate(items []*domain.Item, location *geo.Coordinates, rangeMeters float64, lastAlerted map[string]domain.Timestamp, now time.Time) []Alert {
	if !location.Valid() {
		return nil
	}

	nowMs := domain.TimestampOf(now)
	window := domain.Timestamp(SuppressionWindow.Milliseconds())

	var alerts []Alert
	for _, it := range items {
		if it == nil || it.Completed || !it.HasLocation() {
			continue
		}
		d := geo.DistanceMeters(location, it.Coordinates)
		if d > rangeMeters {
			continue
		}
		if nowMs-lastAlerted[it.ID] <= window {
			continue
		}
		alerts = append(alerts, Alert{Item: it, DistanceMeters: d})
	}
	return alerts
}
