package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

// Clock returns the current time. Handlers default to time.Now.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// publishChanged announces a committed mutation. The change is already
// stored, so a publish failure is logged rather than returned.
func publishChanged(ctx context.Context, publisher eventbus.EventPublisher, change domain.ItemsChanged) {
	if publisher == nil {
		return
	}
	event, err := eventbus.NewEvent(ctx, domain.RoutingKeyItemsChanged, change)
	if err == nil {
		err = publisher.PublishEvent(ctx, event)
	}
	if err != nil {
		slog.Default().WarnContext(ctx, "failed to publish items changed",
			"reason", change.Reason,
			"error", err,
		)
	}
}
