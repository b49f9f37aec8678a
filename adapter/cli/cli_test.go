package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalApp "github.com/felixgeelhaar/bucketlist/internal/app"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/queries"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/proximity"
	"github.com/felixgeelhaar/bucketlist/pkg/config"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func setupCLI(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		StorageBackend:        config.StorageMemory,
		ProximityPollInterval: time.Second,
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, nil,
		internalApp.WithClock(func() time.Time { return testNow }),
		internalApp.WithLocation(time.UTC),
		internalApp.WithNotifier(proximity.MultiNotifier{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	cliApp := NewApp(container)
	cliApp.Now = func() time.Time { return testNow }
	SetApp(cliApp)
	t.Cleanup(func() { SetApp(nil) })
	return cliApp
}

// run executes a command's RunE with flags applied, and resets the flags
// afterwards so commands can be reused.
func run(t *testing.T, cmd *cobra.Command, flags map[string]string, args ...string) (string, error) {
	t.Helper()
	defer resetFlags(cmd)
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value), "flag %s", name)
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	cmd.SetOut(nil)
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func TestCLI_NotInitialized(t *testing.T) {
	SetApp(nil)
	_, err := run(t, listCmd, nil)
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestCLI_AddListDone(t *testing.T) {
	setupCLI(t)

	out, err := run(t, addCmd, map[string]string{
		"type":     "destination",
		"at":       "48.8566,2.3522",
		"category": "Travel",
		"interest": "food,art",
	}, "Paris")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Paris")

	_, err = run(t, addCmd, nil, "Learn", "Italian")
	require.NoError(t, err)

	_, err = run(t, addCmd, nil, "paris")
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)

	out, err = run(t, listCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "0 done · 2 to go · 0% complete")
	assert.Contains(t, out, "Learn Italian")
	assert.Contains(t, out, "Paris [Travel]")

	out, err = run(t, doneCmd, map[string]string{"on": "2024-05-01"}, "Paris")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris completed on 2024-05-01")

	out, err = run(t, listCmd, map[string]string{"done": "true"})
	require.NoError(t, err)
	assert.Contains(t, out, "1 done · 1 to go · 50% complete")
	assert.Contains(t, out, "✓ 2024-05-01")
	assert.NotContains(t, out, "Learn Italian")

	_, err = run(t, doneCmd, map[string]string{"on": "2024-06-01"}, "Learn Italian")
	assert.ErrorIs(t, err, domain.ErrCompletedInFuture)

	out, err = run(t, reopenCmd, nil, "Paris")
	require.NoError(t, err)
	assert.Contains(t, out, "Reopened Paris")
}

func TestCLI_ListJSONAndDistanceSort(t *testing.T) {
	setupCLI(t)

	for _, it := range []struct{ title, at string }{
		{"Berlin Wall", "52.5351,13.3903"},
		{"Louvre", "48.8606,2.3376"},
		{"Write a novel", ""},
	} {
		flags := map[string]string{"type": "goal"}
		if it.at != "" {
			flags = map[string]string{"type": "destination", "at": it.at}
		}
		_, err := run(t, addCmd, flags, it.title)
		require.NoError(t, err)
	}

	out, err := run(t, listCmd, map[string]string{"sort": "distance", "near": "48.8566,2.3522", "json": "true"})
	require.NoError(t, err)

	var res struct {
		Items []struct {
			Title          string   `json:"title"`
			DistanceMeters *float64 `json:"distanceMeters"`
		} `json:"items"`
		Counts struct {
			Pending int `json:"pending"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Items, 3)
	assert.Equal(t, "Louvre", res.Items[0].Title)
	assert.Equal(t, "Berlin Wall", res.Items[1].Title)
	assert.Equal(t, "Write a novel", res.Items[2].Title)
	assert.Nil(t, res.Items[2].DistanceMeters)
	require.NotNil(t, res.Items[0].DistanceMeters)
	assert.Less(t, *res.Items[0].DistanceMeters, 2000.0)
	assert.Equal(t, 3, res.Counts.Pending)

	_, err = run(t, listCmd, map[string]string{"sort": "random"})
	assert.Error(t, err)
}

func TestResolveItem(t *testing.T) {
	a := setupCLI(t)
	ctx := context.Background()

	_, err := run(t, addCmd, nil, "Skydive")
	require.NoError(t, err)
	items, err := a.ItemRepo.FindAll(ctx)
	require.NoError(t, err)
	id := items[0].ID

	got, err := resolveItem(ctx, a.ItemRepo, id)
	require.NoError(t, err)
	assert.Equal(t, "Skydive", got.Title)

	got, err = resolveItem(ctx, a.ItemRepo, id[:6])
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	got, err = resolveItem(ctx, a.ItemRepo, "SKYDIVE")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = resolveItem(ctx, a.ItemRepo, "nothing-like-this")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestCLI_EditAndStops(t *testing.T) {
	setupCLI(t)

	_, err := run(t, addCmd, map[string]string{"type": "roadtrip", "stop": "Chicago"}, "Route 66")
	require.NoError(t, err)

	_, err = run(t, editCmd, map[string]string{"add-stop": "Tulsa", "description": "Mother road"}, "Route 66")
	require.NoError(t, err)
	_, err = run(t, editCmd, map[string]string{"add-stop": "Santa Monica"}, "Route 66")
	require.NoError(t, err)

	out, err := run(t, stopMoveCmd, nil, "Route 66", "2", "0")
	require.NoError(t, err)
	assert.Equal(t, "0. Santa Monica\n1. Chicago\n2. Tulsa\n", out)

	out, err = run(t, stopDoneCmd, map[string]string{"spawn": "true", "on": "2024-05-03"}, "Route 66", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Tulsa (1/3 stops)")
	assert.Contains(t, out, "Added Tulsa as a completed destination")

	out, err = run(t, showCmd, nil, "Route 66")
	require.NoError(t, err)
	assert.Contains(t, out, "About:    Mother road")
	assert.Contains(t, out, "2. [x] Tulsa")

	_, err = run(t, stopDoneCmd, nil, "Route 66", "7")
	assert.ErrorIs(t, err, domain.ErrStopNotFound)

	_, err = run(t, stopReopenCmd, nil, "Route 66", "2")
	require.NoError(t, err)
}

func TestCLI_ExportImportRoundTrip(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()

	for _, title := range []string{"Aurora", "Marathon"} {
		_, err := run(t, addCmd, nil, title)
		require.NoError(t, err)
	}

	path := filepath.Join(dir, "list.json")
	out, err := run(t, exportCmd, map[string]string{"format": "json", "output": path})
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 items")

	_, err = run(t, removeCmd, map[string]string{"all": "true"})
	assert.Error(t, err, "clearing requires --yes")
	_, err = run(t, removeCmd, map[string]string{"all": "true", "yes": "true"})
	require.NoError(t, err)

	out, err = run(t, importCmd, nil, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 items from json")

	out, err = run(t, listCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Aurora")
	assert.Contains(t, out, "Marathon")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[{"), 0o600))
	_, err = run(t, importCmd, nil, bad)
	assert.Error(t, err)

	out, err = run(t, listCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "2 to go", "a failed import leaves the list alone")

	out, err = run(t, exportCmd, map[string]string{"format": "csv", "output": "-"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Aurora"))

	_, err = run(t, exportCmd, map[string]string{"format": "xml"})
	assert.Error(t, err)
}

func TestCLI_RadarAt(t *testing.T) {
	setupCLI(t)

	_, err := run(t, addCmd, map[string]string{"type": "destination", "at": "48.8584,2.2945"}, "Eiffel Tower")
	require.NoError(t, err)

	out, err := run(t, radarCmd, map[string]string{"at": "48.8580,2.2950"})
	require.NoError(t, err)
	assert.Contains(t, out, "Eiffel Tower is")

	out, err = run(t, radarCmd, map[string]string{"at": "48.8580,2.2950"})
	require.NoError(t, err)
	assert.Empty(t, out, "an item alerts at most once per day")

	out, err = run(t, radarCmd, map[string]string{"status": "true"})
	require.NoError(t, err)
	assert.Contains(t, out, "Eiffel Tower  last alerted")

	_, err = run(t, radarCmd, map[string]string{"at": "north"})
	assert.Error(t, err)
}

func TestCLI_RadarStdin(t *testing.T) {
	setupCLI(t)

	_, err := run(t, addCmd, map[string]string{"type": "destination", "at": "51.5007,-0.1246"}, "Big Ben")
	require.NoError(t, err)

	radarCmd.SetIn(strings.NewReader("# walk\n40.0,-3.0\nnot a point\n51.5010,-0.1240\n51.5011,-0.1241\n"))
	t.Cleanup(func() { radarCmd.SetIn(nil) })

	out, err := run(t, radarCmd, map[string]string{"stdin": "true"})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "Big Ben is"))
	assert.Contains(t, out, "1 alerts")
}

func TestCLI_RadarWithoutFeed(t *testing.T) {
	setupCLI(t)
	_, err := run(t, radarCmd, nil)
	assert.ErrorContains(t, err, "no live location feed")
}

func TestCLI_StatsAndInsight(t *testing.T) {
	a := setupCLI(t)

	_, err := run(t, addCmd, map[string]string{"category": "Adventure"}, "Skydive")
	require.NoError(t, err)
	_, err = run(t, doneCmd, map[string]string{"on": "2024-03-02"}, "Skydive")
	require.NoError(t, err)
	_, err = run(t, addCmd, nil, "Climb Kilimanjaro")
	require.NoError(t, err)

	out, err := run(t, statsCmd, map[string]string{"json": "true"})
	require.NoError(t, err)
	var d struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 2, d.Total)
	assert.Equal(t, 1, d.Completed)

	out, err = run(t, statsCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed:        1 of 2 (50%)")

	out, err = run(t, insightCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "💡")

	list, err := a.NotificationService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "insight", string(list[0].Type))
}

func TestInsightSummary(t *testing.T) {
	a := setupCLI(t)
	ctx := context.Background()
	_, err := run(t, addCmd, nil, "Swim with whale sharks")
	require.NoError(t, err)

	d, err := a.GetDashboardHandler.Handle(ctx)
	require.NoError(t, err)
	view, err := a.ListItemsHandler.Handle(ctx, queries.ListItemsQuery{List: queries.ListActive})
	require.NoError(t, err)

	summary := insightSummary(d, view)
	assert.Contains(t, summary, "1 items, 0 completed (0%).")
	assert.Contains(t, summary, "Still open: Swim with whale sharks.")
}

func TestCLI_Doctor(t *testing.T) {
	setupCLI(t)

	out, err := run(t, doctorCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "storage")
	assert.Contains(t, out, "Overall: healthy")
}

func TestCLI_Version(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(out.String(), "bucketlist dev\n"))
}

func TestPrintMetrics(t *testing.T) {
	m := observability.NewInMemoryMetrics()
	var out bytes.Buffer
	printMetrics(&out, m)
	assert.Empty(t, out.String())

	m.Counter("bucketlist.items.added", 2)
	printMetrics(&out, m)
	assert.Contains(t, out.String(), "metrics:")
	assert.Regexp(t, `bucketlist\.items\.added\s+2\n`, out.String())
}
