package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/felixgeelhaar/bucketlist/internal/proximity"
	"github.com/spf13/cobra"
)

var (
	radarAt     string
	radarStdin  bool
	radarStatus bool
)

var radarCmd = &cobra.Command{
	Use:   "radar",
	Short: "Alert when you are near an item on your list",
	Long: `Check your position against every open item with coordinates.

An item within the proximity range (see "bucketlist settings") triggers a
notification, at most once per 24 hours.

Modes:
  --at lat,lng   Check one position and exit
  --stdin        Read positions from stdin, one "lat,lng" or JSON object per line
  (default)      Follow the live location feed (LOCATION_WS_URL or the
                 Redis LOCATION_CHANNEL) until interrupted

Examples:
  bucketlist radar --at 48.8584,2.2945
  gpspipe -w | my-filter | bucketlist radar --stdin
  bucketlist radar --status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ProximityEngine == nil {
			return errNotInitialized
		}
		engine := app.ProximityEngine
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		unit := distanceUnit(cmd)

		if radarStatus {
			return printRadarStatus(ctx, out, engine)
		}

		engine.Enable()
		defer engine.Disable()

		switch {
		case radarAt != "":
			coords, err := proximity.ParseCoordinates(radarAt)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			engine.UpdateLocation(coords)
			alerts, err := engine.Tick(ctx)
			if err != nil {
				return fmt.Errorf("radar check failed: %w", err)
			}
			printAlerts(out, alerts, unit)
			return nil

		case radarStdin:
			src := proximity.NewReaderSource(cmd.InOrStdin(), logger)
			total := 0
			err := src.Watch(ctx, func(c geo.Coordinates) {
				engine.UpdateLocation(c)
				alerts, err := engine.Tick(ctx)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "radar check failed: %v\n", err)
					return
				}
				total += len(alerts)
				printAlerts(out, alerts, unit)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(out, "%d alerts\n", total)
			return nil

		default:
			if app.LocationSource == nil {
				return errors.New("no live location feed configured, use --at or --stdin")
			}
			return followLive(ctx, engine, app.LocationSource)
		}
	},
}

// followLive runs the engine loop while the location source feeds it, until
// the context is cancelled or the source fails.
func followLive(ctx context.Context, engine *proximity.Engine, src proximity.LocationSource) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- engine.Run(ctx) }()

	err := engine.Follow(ctx, src)
	cancel()
	if rerr := <-runErr; rerr != nil && !errors.Is(rerr, context.Canceled) && err == nil {
		err = rerr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printAlerts(w io.Writer, alerts []proximity.Alert, unit geo.Unit) {
	if len(alerts) == 0 {
		return
	}
	for _, a := range alerts {
		fmt.Fprintf(w, "📍 %s is %s away\n", a.Item.Title, geo.FormatDistance(a.DistanceMeters, unit))
	}
}

func printRadarStatus(ctx context.Context, w io.Writer, engine *proximity.Engine) error {
	last, err := engine.LastAlerted(ctx)
	if err != nil {
		return err
	}
	if len(last) == 0 {
		fmt.Fprintln(w, "No alerts recorded.")
		return nil
	}
	app := GetApp()
	for _, id := range slices.Sorted(maps.Keys(last)) {
		ts := last[id]
		title := id
		if app != nil && app.ItemRepo != nil {
			if it, err := app.ItemRepo.FindByID(ctx, id); err == nil {
				title = it.Title
			}
		}
		fmt.Fprintf(w, "%s  last alerted %s\n", title, ts.Time().Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func init() {
	radarCmd.Flags().StringVar(&radarAt, "at", "", "check a single position (lat,lng)")
	radarCmd.Flags().BoolVar(&radarStdin, "stdin", false, "read positions from stdin")
	radarCmd.Flags().BoolVar(&radarStatus, "status", false, "show when each item last alerted")
	rootCmd.AddCommand(radarCmd)
}
