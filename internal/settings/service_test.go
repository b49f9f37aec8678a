package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when nothing is stored", func(t *testing.T) {
		s, err := NewService(kv.NewMemoryStore()).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, Defaults(), s)
		assert.Equal(t, 2000.0, s.ProximityRange)
		assert.Equal(t, geo.UnitKilometers, s.DistanceUnit)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		store := kv.NewMemoryStore()
		require.NoError(t, store.Set(ctx, kv.KeySettings, map[string]any{"theme": "dark"}))

		s, err := NewService(store).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, ThemeDark, s.Theme)
		assert.Equal(t, DefaultProximityRange, s.ProximityRange)
		assert.True(t, s.VoiceAlertsEnabled)
	})
}

func TestService_Set(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemoryStore())

	s, err := svc.Set(ctx, "proximityrange", "500")
	require.NoError(t, err)
	assert.Equal(t, 500.0, s.ProximityRange)

	s, err = svc.Set(ctx, KeyDistanceUnit, "MI")
	require.NoError(t, err)
	assert.Equal(t, geo.UnitMiles, s.DistanceUnit)

	_, err = svc.Set(ctx, KeyVoiceAlertsEnabled, "false")
	require.NoError(t, err)

	stored, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stored.ProximityRange)
	assert.Equal(t, geo.UnitMiles, stored.DistanceUnit)
	assert.False(t, stored.VoiceAlertsEnabled)

	tests := []struct {
		key, value string
		wantErr    error
	}{
		{"color", "red", ErrUnknownKey},
		{KeyTheme, "neon", ErrInvalidValue},
		{KeyProximityRange, "far", ErrInvalidValue},
		{KeyProximityRange, "-1", ErrInvalidValue},
		{KeyTravelMode, "teleport", ErrInvalidValue},
		{KeyAutoBackupEnabled, "sometimes", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := svc.Set(ctx, tt.key, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	after, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, after, "failed updates are not saved")
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemoryStore())

	next := Defaults()
	next.AutoBackupEnabled = true
	require.NoError(t, svc.Update(ctx, next))

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.AutoBackupEnabled)

	next.DistanceUnit = "leagues"
	assert.ErrorIs(t, svc.Update(ctx, next), ErrInvalidValue)
}

func TestService_Vocabularies(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemoryStore())

	members, err := svc.Terms(ctx, VocabFamilyMembers)
	require.NoError(t, err)
	assert.Equal(t, []string{"Me"}, members)

	members, err = svc.AddTerm(ctx, VocabFamilyMembers, "  Alex ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Me", "Alex"}, members)

	_, err = svc.AddTerm(ctx, VocabFamilyMembers, "alex")
	assert.ErrorIs(t, err, ErrDuplicateTerm)
	_, err = svc.AddTerm(ctx, VocabFamilyMembers, " ")
	assert.ErrorIs(t, err, ErrEmptyTerm)

	members, err = svc.RemoveTerm(ctx, VocabFamilyMembers, "ME")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex"}, members)

	_, err = svc.RemoveTerm(ctx, VocabFamilyMembers, "Sam")
	assert.ErrorIs(t, err, ErrTermNotFound)

	stored, err := svc.Terms(ctx, VocabFamilyMembers)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex"}, stored)

	categories, err := svc.Terms(ctx, VocabCategories)
	require.NoError(t, err)
	assert.Equal(t, "Travel", categories[0])

	_, err = svc.Terms(ctx, Vocabulary("colors"))
	assert.ErrorIs(t, err, ErrUnknownVocab)
}

func TestParseVocabulary(t *testing.T) {
	v, err := ParseVocabulary("familyMembers")
	require.NoError(t, err)
	assert.Equal(t, VocabFamilyMembers, v)

	v, err = ParseVocabulary("Category")
	require.NoError(t, err)
	assert.Equal(t, VocabCategories, v)

	_, err = ParseVocabulary("colors")
	assert.ErrorIs(t, err, ErrUnknownVocab)
}
