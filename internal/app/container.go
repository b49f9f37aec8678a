// Package app wires storage, the event bus and every application service
// into a Container.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/backup"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/queries"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/infrastructure/persistence"
	"github.com/felixgeelhaar/bucketlist/internal/drafting"
	"github.com/felixgeelhaar/bucketlist/internal/notifications"
	"github.com/felixgeelhaar/bucketlist/internal/proximity"
	"github.com/felixgeelhaar/bucketlist/internal/settings"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
	"github.com/felixgeelhaar/bucketlist/pkg/config"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Storage
	Store    kv.Store
	ItemRepo domain.Repository

	// Events
	EventBus  *eventbus.InProcessEventBus
	Publisher eventbus.Publisher

	// Item Command Handlers
	AddItemHandler      *commands.AddItemHandler
	UpdateItemHandler   *commands.UpdateItemHandler
	CompleteItemHandler *commands.CompleteItemHandler
	ReopenItemHandler   *commands.ReopenItemHandler
	RemoveItemHandler   *commands.RemoveItemHandler
	ReplaceAllHandler   *commands.ReplaceAllHandler
	CompleteStopHandler *commands.CompleteStopHandler
	ReopenStopHandler   *commands.ReopenStopHandler
	ReorderStopHandler  *commands.ReorderStopHandler
	ImportItemsHandler  *commands.ImportItemsHandler
	ExportItemsHandler  *commands.ExportItemsHandler

	// Item Query Handlers
	ListItemsHandler    *queries.ListItemsHandler
	GetDashboardHandler *queries.GetDashboardHandler

	// Services
	SettingsService     *settings.Service
	NotificationService *notifications.Service
	DraftingService     *drafting.Service
	BackupService       *backup.Service // nil when no remote is configured
	ProximityEngine     *proximity.Engine

	storage *storage
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	now      func() time.Time
	loc      *time.Location
	notifier proximity.Notifier
}

// WithClock sets the clock used by every time-dependent service.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the time zone used for calendar statistics.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithNotifier sets the notifier the proximity engine drives.
func WithNotifier(n proximity.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// NewContainer opens storage and wires every service.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
		Store:   st.store,
		storage: st,
	}
	c.Health.Register("storage", st.health)

	if err := c.wireEvents(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.wireItems(o)
	c.SettingsService = settings.NewService(c.Store)
	c.NotificationService = notifications.NewService(c.Store, o.now)
	c.wireDrafting()
	if err := c.wireBackup(o); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.wireProximity(o)

	logger.Info("container initialized",
		"storage", cfg.StorageBackend,
		"push", cfg.PushEnabled(),
		"drafting", cfg.DraftingEnabled(),
		"backup", cfg.BackupEnabled(),
	)
	return c, nil
}

func (c *Container) wireEvents(_ context.Context) error {
	c.EventBus = eventbus.NewInProcessEventBus(c.Logger)

	if !c.Config.PushEnabled() {
		c.Publisher = eventbus.NewNoopPublisher(c.Logger)
		c.Health.Register("broker", observability.DisabledChecker("RABBITMQ_URL not set"))
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	c.Publisher = publisher
	c.EventBus.RegisterConsumer(eventbus.NewBrokerForwarder(publisher, c.Logger, domain.RoutingKeyItemsChanged))
	c.Health.Register("broker", func(context.Context) observability.HealthCheckResult {
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy, Message: "rabbitmq connected"}
	})
	return nil
}

func (c *Container) wireItems(o options) {
	repo := persistence.NewKVItemRepository(c.Store)
	c.ItemRepo = repo
	now := commands.Clock(o.now)
	bus := c.EventBus

	c.AddItemHandler = commands.NewAddItemHandler(repo, bus, now)
	c.UpdateItemHandler = commands.NewUpdateItemHandler(repo, bus)
	c.CompleteItemHandler = commands.NewCompleteItemHandler(repo, bus, now)
	c.ReopenItemHandler = commands.NewReopenItemHandler(repo, bus)
	c.RemoveItemHandler = commands.NewRemoveItemHandler(repo, bus)
	c.ReplaceAllHandler = commands.NewReplaceAllHandler(repo, bus)
	c.CompleteStopHandler = commands.NewCompleteStopHandler(repo, bus, now)
	c.ReopenStopHandler = commands.NewReopenStopHandler(repo, bus)
	c.ReorderStopHandler = commands.NewReorderStopHandler(repo, bus)
	c.ImportItemsHandler = commands.NewImportItemsHandler(repo, bus, now)
	c.ExportItemsHandler = commands.NewExportItemsHandler(repo, now)

	c.ListItemsHandler = queries.NewListItemsHandler(repo, o.loc)
	c.GetDashboardHandler = queries.NewGetDashboardHandler(repo, o.loc, o.now)
}

func (c *Container) wireDrafting() {
	cfg := drafting.DefaultConfig()
	cfg.Metrics = c.Metrics
	if c.Config.DraftTimeout > 0 {
		cfg.Timeout = c.Config.DraftTimeout
	}
	cfg.RatePerMinute = c.Config.DraftRatePerMinute

	var generator drafting.Generator
	if c.Config.DraftingEnabled() {
		generator = drafting.NewGeminiClient(c.Config.GeminiAPIKey, c.Config.GeminiModel, c.Config.GeminiEndpoint, c.Logger)
		c.Health.Register("drafting", func(context.Context) observability.HealthCheckResult {
			state := c.DraftingService.BreakerState()
			if state == "open" {
				return observability.HealthCheckResult{Status: observability.HealthStatusDegraded, Message: "circuit open, using fallback drafts"}
			}
			return observability.HealthCheckResult{Status: observability.HealthStatusHealthy, Message: "circuit " + state}
		})
	} else {
		c.Health.Register("drafting", observability.DisabledChecker("GEMINI_API_KEY not set, using fallback drafts"))
	}
	c.DraftingService = drafting.NewService(generator, cfg, c.Logger)
}

func (c *Container) wireBackup(o options) error {
	if !c.Config.BackupEnabled() {
		c.Health.Register("backup", observability.DisabledChecker("BACKUP_WEBDAV_URL not set"))
		return nil
	}

	var (
		creds backup.Credentials = backup.BasicAuth{Username: c.Config.BackupUsername, Password: c.Config.BackupPassword}
		auth  backup.Reauthenticator
	)
	if c.Config.OAuthEnabled() {
		oauth := backup.NewOAuthAuthenticator(
			c.Config.BackupOAuthClientID,
			c.Config.BackupOAuthClientSecret,
			c.Config.BackupOAuthTokenURL,
			c.Config.BackupOAuthRefreshToken,
		)
		creds, auth = oauth, oauth
	}

	store, err := backup.NewWebDAVStore(c.Config.BackupWebDAVURL, creds, c.Logger)
	if err != nil {
		return err
	}

	var sealer crypto.Sealer
	if c.Config.BackupEncryptionKey != "" {
		s, err := crypto.NewAESSealerFromBase64Key(c.Config.BackupEncryptionKey)
		if err != nil {
			return fmt.Errorf("invalid BACKUP_ENCRYPTION_KEY: %w", err)
		}
		sealer = s
	}

	c.BackupService = backup.NewService(store, auth, sealer, c.Metrics, c.Logger).WithClock(o.now)
	c.EventBus.RegisterConsumer(backup.NewAutoBackupConsumer(c.BackupService, c.ItemRepo, c.SettingsService, c.Metrics, c.Logger))
	c.Health.Register("backup", func(context.Context) observability.HealthCheckResult {
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy, Message: "webdav " + c.Config.BackupWebDAVURL}
	})
	return nil
}

func (c *Container) wireProximity(o options) {
	notifier := o.notifier
	if notifier == nil {
		notifier = proximity.NewConsoleNotifier(os.Stdout)
	}
	if c.Config.PushEnabled() {
		notifier = proximity.MultiNotifier{notifier, proximity.NewPushNotifier(c.Publisher)}
	}

	c.ProximityEngine = proximity.NewEngine(
		c.ItemRepo,
		c.SettingsService,
		notifier,
		c.NotificationService,
		c.Store,
		proximity.EngineConfig{
			Interval: c.Config.ProximityPollInterval,
			Metrics:  c.Metrics,
			Now:      o.now,
		},
		c.Logger,
	)
}

// LocationSource returns the live location feed configured for the radar,
// or nil when none is set up.
func (c *Container) LocationSource() proximity.LocationSource {
	switch {
	case c.Config.LocationWSURL != "":
		return proximity.NewWebSocketSource(c.Config.LocationWSURL, c.Logger)
	case c.storage.redis != nil && c.Config.LocationChannel != "":
		return proximity.NewRedisSource(c.storage.redis, c.Config.LocationChannel, c.Logger)
	default:
		return nil
	}
}

// Close releases every resource the container opened.
func (c *Container) Close() error {
	var errs []error
	if c.ProximityEngine != nil {
		c.ProximityEngine.Stop()
	}
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.storage != nil && c.storage.close != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, c.storage.close(ctx))
	}
	return errors.Join(errs...)
}
