package cli

import (
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/app"
	"github.com/felixgeelhaar/bucketlist/internal/backup"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/queries"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/drafting"
	"github.com/felixgeelhaar/bucketlist/internal/notifications"
	"github.com/felixgeelhaar/bucketlist/internal/proximity"
	"github.com/felixgeelhaar/bucketlist/internal/settings"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	ItemRepo domain.Repository

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
	BackupService       *backup.Service
	ProximityEngine     *proximity.Engine
	LocationSource      proximity.LocationSource
	Health              *observability.HealthRegistry
	Metrics             *observability.InMemoryMetrics

	// Now is the clock used for completion dates; defaults to time.Now.
	Now func() time.Time
}

// NewApp creates a new CLI application from a wired container.
func NewApp(c *app.Container) *App {
	return &App{
		ItemRepo:            c.ItemRepo,
		AddItemHandler:      c.AddItemHandler,
		UpdateItemHandler:   c.UpdateItemHandler,
		CompleteItemHandler: c.CompleteItemHandler,
		ReopenItemHandler:   c.ReopenItemHandler,
		RemoveItemHandler:   c.RemoveItemHandler,
		ReplaceAllHandler:   c.ReplaceAllHandler,
		CompleteStopHandler: c.CompleteStopHandler,
		ReopenStopHandler:   c.ReopenStopHandler,
		ReorderStopHandler:  c.ReorderStopHandler,
		ImportItemsHandler:  c.ImportItemsHandler,
		ExportItemsHandler:  c.ExportItemsHandler,
		ListItemsHandler:    c.ListItemsHandler,
		GetDashboardHandler: c.GetDashboardHandler,
		SettingsService:     c.SettingsService,
		NotificationService: c.NotificationService,
		DraftingService:     c.DraftingService,
		BackupService:       c.BackupService,
		ProximityEngine:     c.ProximityEngine,
		LocationSource:      c.LocationSource(),
		Health:              c.Health,
		Metrics:             c.Metrics,
		Now:                 time.Now,
	}
}

// now returns the current time from the app clock.
func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Global app instance (set by main)
var globalApp *App

// SetApp sets the global app instance.
func SetApp(app *App) {
	globalApp = app
}

// GetApp returns the global app instance.
func GetApp() *App {
	return globalApp
}
