package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
)

func TestUpdateItemHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces mutable fields", func(t *testing.T) {
		paris := mustItem(t, "Paris", domain.TypeDestination)
		require.NoError(t, paris.Complete(testNow.Add(-time24h), testNow))
		repo := newRepo(t, paris)
		pub := &recordingPublisher{}

		cmd := UpdateItemCommandFrom(paris)
		cmd.Title = "Paris in spring"
		cmd.Interests = []string{"art", "Art", "food"}
		cmd.Itinerary = []domain.ItineraryStop{{Name: "Louvre"}, {Name: "Orsay"}}

		updated, err := NewUpdateItemHandler(repo, pub).Handle(ctx, cmd)
		require.NoError(t, err)

		stored, err := repo.FindByID(ctx, paris.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
		assert.Equal(t, "Paris in spring", stored.Title)
		assert.Equal(t, []string{"art", "food"}, stored.Interests)
		assert.Len(t, stored.Itinerary, 2)
		assert.True(t, stored.Completed, "completion state is kept")
		assert.Equal(t, paris.CreatedAt, stored.CreatedAt)
		assert.Equal(t, domain.ChangeUpdated, pub.last(t).Reason)
	})

	t.Run("keeps its own title but rejects another", func(t *testing.T) {
		paris := mustItem(t, "Paris", domain.TypeDestination)
		rome := mustItem(t, "Rome", domain.TypeDestination)
		repo := newRepo(t, paris, rome)
		handler := NewUpdateItemHandler(repo, nil)

		cmd := UpdateItemCommandFrom(paris)
		cmd.Title = "PARIS"
		_, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)

		cmd.Title = "rome"
		_, err = handler.Handle(ctx, cmd)
		assert.ErrorIs(t, err, domain.ErrDuplicateTitle)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := NewUpdateItemHandler(newRepo(t), nil).Handle(ctx, UpdateItemCommand{ID: "nope", Title: "x", Type: domain.TypeGoal})
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("validates before loading", func(t *testing.T) {
		handler := NewUpdateItemHandler(new(mockItemRepo), nil)

		_, err := handler.Handle(ctx, UpdateItemCommand{ID: "a", Title: " ", Type: domain.TypeGoal})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)

		_, err = handler.Handle(ctx, UpdateItemCommand{ID: "a", Title: "x", Type: domain.TypeGoal, StartDate: 10, EndDate: 5})
		assert.ErrorIs(t, err, domain.ErrEndBeforeStart)
	})
}
