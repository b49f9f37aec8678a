package proximity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/felixgeelhaar/bucketlist/internal/notifications"
	"github.com/felixgeelhaar/bucketlist/internal/settings"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

type staticItems []*domain.Item

func (s staticItems) FindAll(context.Context) ([]*domain.Item, error) { return s, nil }

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	fail  error
}

func (r *recordingNotifier) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.fail
}

func (r *recordingNotifier) Speak(_ context.Context, text string) error {
	return r.record("speak:" + text)
}

func (r *recordingNotifier) Push(_ context.Context, p Push) error {
	return r.record(fmt.Sprintf("push:%s|%s|%s", p.Title, p.Body, p.Tag))
}

func (r *recordingNotifier) Toast(_ context.Context, message string) error {
	return r.record("toast:" + message)
}

func (r *recordingNotifier) Haptic(context.Context) error {
	return r.record("haptic")
}

func (r *recordingNotifier) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type engineFixture struct {
	engine   *Engine
	notifier *recordingNotifier
	inbox    *notifications.Service
	settings *settings.Service
	store    *kv.MemoryStore
	now      time.Time
}

func newEngineFixture(t *testing.T, items ...*domain.Item) *engineFixture {
	t.Helper()
	f := &engineFixture{
		notifier: &recordingNotifier{},
		store:    kv.NewMemoryStore(),
		now:      testNow,
	}
	clock := func() time.Time { return f.now }
	f.inbox = notifications.NewService(f.store, clock)
	f.settings = settings.NewService(f.store)
	f.engine = NewEngine(staticItems(items), f.settings, f.notifier, f.inbox, f.store,
		EngineConfig{Interval: time.Millisecond, Now: clock}, nil)
	return f
}

func TestEngine_FiresOnceWithinWindow(t *testing.T) {
	ctx := context.Background()
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)
	f.engine.Enable()
	f.engine.UpdateLocation(nearParis)

	alerts, err := f.engine.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	last, err := f.engine.LastAlerted(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TimestampOf(testNow), last[item.ID])

	f.now = testNow.Add(23*time.Hour + 59*time.Minute)
	alerts, err = f.engine.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	f.now = testNow.Add(24*time.Hour + time.Minute)
	alerts, err = f.engine.Tick(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestEngine_FireOrder(t *testing.T) {
	ctx := context.Background()
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)
	f.engine.Enable()
	f.engine.UpdateLocation(nearParis)

	_, err := f.engine.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"speak:You are near Eiffel Tower, 73 meters away",
		"push:Nearby: Eiffel Tower|Eiffel Tower is 73m away|" + item.ID,
		"toast:You are near Eiffel Tower (73m)",
		"haptic",
	}, f.notifier.Calls())

	inbox, err := f.inbox.List(ctx)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, notifications.TypeLocation, inbox[0].Type)
	assert.Equal(t, item.ID, inbox[0].RelatedItemID)
	assert.False(t, inbox[0].Read)
}

func TestEngine_RespectsChannelSettings(t *testing.T) {
	ctx := context.Background()
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)
	_, err := f.settings.Set(ctx, settings.KeyVoiceAlertsEnabled, "false")
	require.NoError(t, err)
	_, err = f.settings.Set(ctx, settings.KeyNotificationsEnabled, "false")
	require.NoError(t, err)

	f.engine.Enable()
	f.engine.UpdateLocation(nearParis)
	_, err = f.engine.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"toast:You are near Eiffel Tower (73m)", "haptic"}, f.notifier.Calls())
}

func TestEngine_UsesConfiguredRange(t *testing.T) {
	ctx := context.Background()
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)
	_, err := f.settings.Set(ctx, settings.KeyProximityRange, "50")
	require.NoError(t, err)

	f.engine.Enable()
	f.engine.UpdateLocation(nearParis)
	alerts, err := f.engine.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestEngine_DisabledOrNoLocation(t *testing.T) {
	ctx := context.Background()
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)

	f.engine.UpdateLocation(nearParis)
	alerts, err := f.engine.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts, "disabled engine must not fire")

	g := newEngineFixture(t, item)
	g.engine.Enable()
	alerts, err = g.engine.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts, "no location known yet")

	assert.Empty(t, f.notifier.Calls())
	assert.Empty(t, g.notifier.Calls())
}

func TestEngine_IgnoresInvalidLocation(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.UpdateLocation(paris)
	f.engine.UpdateLocation(geo.Coordinates{Latitude: math.NaN(), Longitude: 2})

	loc := f.engine.Location()
	require.NotNil(t, loc)
	assert.Equal(t, paris, *loc)
}

func TestEngine_SuppressionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)
	f.engine.Enable()
	f.engine.UpdateLocation(nearParis)
	_, err := f.engine.Tick(ctx)
	require.NoError(t, err)

	restarted := NewEngine(staticItems{item}, f.settings, f.notifier, f.inbox, f.store,
		EngineConfig{Now: func() time.Time { return testNow.Add(time.Hour) }}, nil)
	restarted.Enable()
	restarted.UpdateLocation(nearParis)
	alerts, err := restarted.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestEngine_FailingNotifierStillSuppresses(t *testing.T) {
	ctx := context.Background()
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)
	f.notifier.fail = errors.New("speaker unplugged")
	f.engine.Enable()
	f.engine.UpdateLocation(nearParis)

	alerts, err := f.engine.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Len(t, f.notifier.Calls(), 4, "every channel is still attempted")

	alerts, err = f.engine.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestEngine_ConcurrentTicksFireOnce(t *testing.T) {
	ctx := context.Background()
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)
	f.engine.Enable()
	f.engine.UpdateLocation(nearParis)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fired int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alerts, err := f.engine.Tick(ctx)
			assert.NoError(t, err)
			mu.Lock()
			fired += len(alerts)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fired)
}

func TestEngine_RunAndStop(t *testing.T) {
	item := placeItem(t, "Eiffel Tower", &paris)
	f := newEngineFixture(t, item)
	f.engine.Enable()
	f.engine.UpdateLocation(nearParis)

	done := make(chan error, 1)
	go func() { done <- f.engine.Run(context.Background()) }()

	require.Eventually(t, func() bool { return len(f.notifier.Calls()) > 0 }, time.Second, time.Millisecond)
	assert.True(t, f.engine.IsRunning())

	f.engine.Stop()
	f.engine.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
	assert.Len(t, f.notifier.Calls(), 4)
}

func TestEngine_Follow(t *testing.T) {
	f := newEngineFixture(t)
	require.NoError(t, f.engine.Follow(context.Background(), StaticSource{Coordinates: berlin}))

	loc := f.engine.Location()
	require.NotNil(t, loc)
	assert.Equal(t, berlin, *loc)
}
