package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the bucket list dashboard",
	Long: `Display analytics over the whole list, ignoring any filters:
- Completion rate
- Completions per month this year, weekday vs weekend and per season
- Average days from adding to completing an item
- Explorer distance, rank and unique places visited
- Category breakdown and recent completions`,
	Aliases: []string{"dashboard"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetDashboardHandler == nil {
			return errNotInitialized
		}
		d, err := app.GetDashboardHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to build dashboard: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			return json.NewEncoder(out).Encode(d)
		}

		unit := distanceUnit(cmd)
		fmt.Fprintln(out, "\n  Bucket List Dashboard")
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "  Completed:        %d of %d (%.0f%%)\n", d.Completed, d.Total, d.CompletionRate*100)
		fmt.Fprintf(out, "  Avg days to do:   %d\n", d.AvgDaysToKnock)
		fmt.Fprintf(out, "  Itinerary done:   %d%%\n", d.ItineraryPercent)
		fmt.Fprintf(out, "  Explorer:         %s (%s)\n", geo.FormatDistance(d.ExplorerDistanceMeters, unit), d.Rank)
		fmt.Fprintf(out, "  Unique places:    %d\n", d.UniqueLocations)
		fmt.Fprintf(out, "  Weekday/weekend:  %d / %d\n", d.WeekdayCompletions, d.WeekendCompletions)

		fmt.Fprintln(out, "\n  This year")
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for i, n := range d.MonthlyCompletions {
			fmt.Fprintf(out, "  %s %s %d\n", time.Month(i+1).String()[:3], strings.Repeat("█", n), n)
		}

		if len(d.Seasons) > 0 {
			fmt.Fprintln(out, "\n  Seasons")
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, s := range d.Seasons {
				fmt.Fprintf(out, "  %-8s %d\n", s.Season, s.Count)
			}
		}

		if len(d.Categories) > 0 {
			fmt.Fprintln(out, "\n  Categories")
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, c := range d.Categories {
				fmt.Fprintf(out, "  %-20s %d\n", c.Category, c.Count)
			}
		}

		if len(d.Recent) > 0 {
			fmt.Fprintln(out, "\n  Recently completed")
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, it := range d.Recent {
				fmt.Fprintf(out, "  ✓ %s  %s\n", formatDate(it.CompletedAt), it.Title)
			}
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}
