// Package notifications keeps the in-app notification list. Entries expire
// 24 hours after they were created.
package notifications

import (
	"errors"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
)

// ErrNotFound is returned when a notification id is unknown.
var ErrNotFound = errors.New("notification not found")

// Retention is how long a notification stays in the list.
const Retention = domain.Day

// Type classifies a notification.
type Type string

const (
	TypeLocation Type = "location"
	TypeInsight  Type = "insight"
	TypeSystem   Type = "system"
)

// Notification is one in-app notification.
type Notification struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Timestamp     domain.Timestamp `json:"timestamp"`
	Read          bool             `json:"read"`
	Type          Type             `json:"type"`
	RelatedItemID string           `json:"relatedItemId,omitempty"`
}

// Expired reports whether the notification is outside the retention window.
func (n Notification) Expired(now time.Time) bool {
	return n.Timestamp <= domain.TimestampOf(now.Add(-Retention))
}
