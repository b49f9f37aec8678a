package commands

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/infrastructure/persistence"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// recordingPublisher captures published ItemsChanged payloads.
type recordingPublisher struct {
	mu      sync.Mutex
	changes []domain.ItemsChanged
}

func (p *recordingPublisher) PublishEvent(_ context.Context, event *eventbus.ConsumedEvent) error {
	var change domain.ItemsChanged
	if err := event.Decode(&change); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
	return nil
}

func (p *recordingPublisher) last(t *testing.T) domain.ItemsChanged {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.changes, "expected an items changed event")
	return p.changes[len(p.changes)-1]
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.changes)
}

func newRepo(t *testing.T, items ...*domain.Item) domain.Repository {
	t.Helper()
	repo := persistence.NewKVItemRepository(kv.NewMemoryStore())
	if len(items) > 0 {
		require.NoError(t, repo.ReplaceAll(context.Background(), items))
	}
	return repo
}

func mustItem(t *testing.T, title string, itemType domain.Type) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(title, itemType, testNow.Add(-72*time.Hour))
	require.NoError(t, err)
	return item
}

// mockItemRepo is a mock implementation of domain.Repository.
type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) FindAll(ctx context.Context) ([]*domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *mockItemRepo) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepo) Save(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockItemRepo) ReplaceAll(ctx context.Context, items []*domain.Item) error {
	return m.Called(ctx, items).Error(0)
}
