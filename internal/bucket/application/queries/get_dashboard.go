package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
)

// GetDashboardHandler loads every item and builds the dashboard.
type GetDashboardHandler struct {
	repo domain.Repository
	loc  *time.Location
	now  func() time.Time
}

// NewGetDashboardHandler creates a new GetDashboardHandler.
func NewGetDashboardHandler(repo domain.Repository, loc *time.Location, now func() time.Time) *GetDashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &GetDashboardHandler{repo: repo, loc: loc, now: now}
}

// Handle builds the dashboard.
func (h *GetDashboardHandler) Handle(ctx context.Context) (*Dashboard, error) {
	items, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	d := BuildDashboard(items, h.now(), h.loc)
	return &d, nil
}
