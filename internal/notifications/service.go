package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

// Service manages the notification list, newest first.
type Service struct {
	store kv.Store
	now   func() time.Time
	mu    sync.Mutex
}

// NewService creates a notification service.
func NewService(store kv.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// load reads the list and drops expired entries.
func (s *Service) load(ctx context.Context) ([]Notification, error) {
	var all []Notification
	if _, err := s.store.Get(ctx, kv.KeyNotifications, &all); err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	now := s.now()
	live := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.Expired(now) {
			live = append(live, n)
		}
	}
	return live, nil
}

func (s *Service) save(ctx context.Context, list []Notification) error {
	if err := s.store.Set(ctx, kv.KeyNotifications, list); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

// List returns the live notifications.
func (s *Service) List(ctx context.Context) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add stores a notification at the front of the list. A missing id or
// timestamp is filled in.
func (s *Service) Add(ctx context.Context, n Notification) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return n, err
	}
	if n.ID == "" {
		n.ID = domain.NewID()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = domain.TimestampOf(s.now())
	}
	if n.Type == "" {
		n.Type = TypeSystem
	}
	list = append([]Notification{n}, list...)
	return n, s.save(ctx, list)
}

// MarkRead flags one notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
			return s.save(ctx, list)
		}
	}
	return ErrNotFound
}

// MarkAllRead flags every notification as read.
func (s *Service) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Read = true
	}
	return s.save(ctx, list)
}

// Clear removes every notification.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, []Notification{})
}

// UnreadCount returns the number of unread live notifications.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n, nil
}
