package queries

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
)

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
