package backup

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/settings"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

type itemReader interface {
	FindAll(ctx context.Context) ([]*domain.Item, error)
}

type settingsReader interface {
	Get(ctx context.Context) (settings.AppSettings, error)
}

// AutoBackupConsumer uploads the collection after every change while
// auto-backup is enabled in the settings. Restores from the backup itself are
// not uploaded again.
type AutoBackupConsumer struct {
	service  *Service
	items    itemReader
	settings settingsReader
	metrics  observability.Metrics
	logger   *slog.Logger
}

// NewAutoBackupConsumer creates the consumer.
func NewAutoBackupConsumer(service *Service, items itemReader, settingsReader settingsReader, metrics observability.Metrics, logger *slog.Logger) *AutoBackupConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &AutoBackupConsumer{
		service:  service,
		items:    items,
		settings: settingsReader,
		metrics:  metrics,
		logger:   logger,
	}
}

// EventTypes implements eventbus.EventConsumer.
func (c *AutoBackupConsumer) EventTypes() []string {
	return []string{domain.RoutingKeyItemsChanged}
}

// Handle implements eventbus.EventConsumer.
func (c *AutoBackupConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	c.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("consumer", "auto_backup"))

	cfg, err := c.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !cfg.AutoBackupEnabled {
		return nil
	}

	var changed domain.ItemsChanged
	if err := event.Decode(&changed); err != nil {
		return err
	}
	if changed.Reason == domain.ChangeRestored {
		return nil
	}

	items, err := c.items.FindAll(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Put(ctx, items)
	if err != nil {
		c.logger.WarnContext(ctx, "auto backup failed", "change", changed.Reason, "error", err)
		return err
	}
	c.logger.DebugContext(ctx, "auto backup done", "change", changed.Reason, "items", res.Count)
	return nil
}
