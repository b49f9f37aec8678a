package proximity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/felixgeelhaar/bucketlist/internal/notifications"
	"github.com/felixgeelhaar/bucketlist/internal/settings"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

// DefaultPollInterval is the default interval between radar ticks.
const DefaultPollInterval = 10 * time.Second

// ItemReader provides the current item list.
type ItemReader interface {
	FindAll(ctx context.Context) ([]*domain.Item, error)
}

// SettingsReader provides the current settings.
type SettingsReader interface {
	Get(ctx context.Context) (settings.AppSettings, error)
}

// Inbox receives the in-app notification for every alert.
type Inbox interface {
	Add(ctx context.Context, n notifications.Notification) (notifications.Notification, error)
}

// EngineConfig configures the engine.
type EngineConfig struct {
	Interval time.Duration
	Metrics  observability.Metrics
	Now      func() time.Time
}

// DefaultEngineConfig returns the default configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{Interval: DefaultPollInterval}
}

// Engine polls the item list against the last known location. All state,
// including the per-item suppression map, is guarded by one mutex and a tick
// runs to completion while holding it, so an item can never be alerted twice
// inside the suppression window.
type Engine struct {
	items    ItemReader
	settings SettingsReader
	notifier Notifier
	inbox    Inbox
	store    kv.Store
	interval time.Duration
	metrics  observability.Metrics
	now      func() time.Time
	logger   *slog.Logger

	mu          sync.Mutex
	enabled     bool
	location    *geo.Coordinates
	lastAlerted map[string]domain.Timestamp
	loaded      bool

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewEngine creates a disabled engine. store persists the suppression map
// under kv.KeyProximityAlerts.
func NewEngine(
	items ItemReader,
	settingsReader SettingsReader,
	notifier Notifier,
	inbox Inbox,
	store kv.Store,
	cfg EngineConfig,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetrics{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if notifier == nil {
		notifier = MultiNotifier{}
	}
	return &Engine{
		items:    items,
		settings: settingsReader,
		notifier: notifier,
		inbox:    inbox,
		store:    store,
		interval: cfg.Interval,
		metrics:  cfg.Metrics,
		now:      cfg.Now,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Enable turns the radar on. Suppression timestamps recorded earlier still
// apply.
func (e *Engine) Enable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = true
}

// Disable stops future ticks from evaluating. The suppression map is kept.
func (e *Engine) Disable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = false
}

// Enabled reports whether the radar is on.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// UpdateLocation records the user's current position. Invalid coordinates
// are ignored.
func (e *Engine) UpdateLocation(c geo.Coordinates) {
	if !c.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.location = &c
}

// Location returns the last known position, or nil.
func (e *Engine) Location() *geo.Coordinates {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.location == nil {
		return nil
	}
	c := *e.location
	return &c
}

// LastAlerted returns a copy of the suppression map.
func (e *Engine) LastAlerted(ctx context.Context) (map[string]domain.Timestamp, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.loadSuppression(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Timestamp, len(e.lastAlerted))
	for k, v := range e.lastAlerted {
		out[k] = v
	}
	return out, nil
}

// Tick evaluates the items once and fires every alert. It does nothing while
// the radar is disabled or no location is known.
func (e *Engine) Tick(ctx context.Context) ([]Alert, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled || e.location == nil {
		return nil, nil
	}
	if err := e.loadSuppression(ctx); err != nil {
		return nil, err
	}

	cfg := settings.Defaults()
	if e.settings != nil {
		loaded, err := e.settings.Get(ctx)
		if err != nil {
			e.logger.WarnContext(ctx, "failed to load settings, using defaults", "error", err)
		} else {
			cfg = loaded
		}
	}

	items, err := e.items.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	now := e.now()
	alerts := Evaluate(items, e.location, cfg.ProximityRange, e.lastAlerted, now)
	e.metrics.Counter(observability.MetricProximityTicks, 1)

	for _, alert := range alerts {
		e.fire(ctx, alert, cfg, now)
	}
	return alerts, nil
}

// fire runs every side effect for one alert, then records and persists the
// suppression timestamp. Delivery failures are logged and never retried.
func (e *Engine) fire(ctx context.Context, alert Alert, cfg settings.AppSettings, now time.Time) {
	item := alert.Item
	distance := geo.FormatDistance(alert.DistanceMeters, cfg.DistanceUnit)
	log := e.logger.With("item_id", item.ID, "distance_m", int(alert.DistanceMeters))

	if cfg.VoiceAlertsEnabled {
		spoken := fmt.Sprintf("You are near %s, %s away", item.Title, geo.SpeakDistance(alert.DistanceMeters, cfg.DistanceUnit))
		if err := e.notifier.Speak(ctx, spoken); err != nil {
			log.WarnContext(ctx, "voice alert failed", "error", err)
		}
	}
	if cfg.NotificationsEnabled {
		push := Push{
			Title: fmt.Sprintf("Nearby: %s", item.Title),
			Body:  fmt.Sprintf("%s is %s away", item.Title, distance),
			Tag:   item.ID,
		}
		if err := e.notifier.Push(ctx, push); err != nil {
			log.WarnContext(ctx, "push notification failed", "error", err)
		}
	}
	if err := e.notifier.Toast(ctx, fmt.Sprintf("You are near %s (%s)", item.Title, distance)); err != nil {
		log.WarnContext(ctx, "toast failed", "error", err)
	}
	if err := e.notifier.Haptic(ctx); err != nil {
		log.DebugContext(ctx, "haptic failed", "error", err)
	}
	if e.inbox != nil {
		_, err := e.inbox.Add(ctx, notifications.Notification{
			Title:         "Bucket list item nearby",
			Message:       fmt.Sprintf("You are %s from %s", distance, item.Title),
			Timestamp:     domain.TimestampOf(now),
			Type:          notifications.TypeLocation,
			RelatedItemID: item.ID,
		})
		if err != nil {
			log.WarnContext(ctx, "failed to record notification", "error", err)
		}
	}

	e.lastAlerted[item.ID] = domain.TimestampOf(now)
	if err := e.store.Set(ctx, kv.KeyProximityAlerts, e.lastAlerted); err != nil {
		log.ErrorContext(ctx, "failed to persist proximity suppression", "error", err)
	}

	e.metrics.Counter(observability.MetricProximityAlerts, 1)
	log.InfoContext(ctx, "proximity alert fired", "title", item.Title)
}

func (e *Engine) loadSuppression(ctx context.Context) error {
	if e.loaded {
		return nil
	}
	var m map[string]domain.Timestamp
	if _, err := e.store.Get(ctx, kv.KeyProximityAlerts, &m); err != nil {
		return fmt.Errorf("load proximity suppression: %w", err)
	}
	if m == nil {
		m = make(map[string]domain.Timestamp)
	}
	e.lastAlerted = m
	e.loaded = true
	return nil
}

// Run ticks immediately and then on every interval until the context is
// cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	e.running.Store(true)
	defer e.running.Store(false)
	e.logger.Info("proximity engine started", "interval", e.interval)

	e.runTick(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("proximity engine stopped (context cancelled)")
			return ctx.Err()
		case <-e.stopCh:
			e.logger.Info("proximity engine stopped (stop signal)")
			return nil
		case <-ticker.C:
			e.runTick(ctx)
		}
	}
}

func (e *Engine) runTick(ctx context.Context) {
	alerts, err := e.Tick(ctx)
	if err != nil {
		e.logger.Error("proximity tick failed", "error", err)
		return
	}
	if len(alerts) > 0 {
		e.logger.Debug("proximity tick fired", "alerts", len(alerts))
	}
}

// Stop signals Run to return.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

// IsRunning returns true while Run is active.
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// Follow feeds location updates from src into the engine until src ends or
// the context is cancelled.
func (e *Engine) Follow(ctx context.Context, src LocationSource) error {
	return src.Watch(ctx, e.UpdateLocation)
}
