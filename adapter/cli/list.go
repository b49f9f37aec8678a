package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/queries"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/felixgeelhaar/bucketlist/internal/proximity"
	"github.com/spf13/cobra"
)

var (
	listCompleted  bool
	listMember     string
	listCategories []string
	listInterests  []string
	listSearch     string
	listYear       int
	listMonth      int
	listSeason     string
	listSort       string
	listNear       string
	listJSON       bool
)

type listRow struct {
	*domain.Item
	DistanceMeters *float64 `json:"distanceMeters,omitempty"`
}

type listOutput struct {
	Items  []listRow        `json:"items"`
	Counts queries.Counts   `json:"counts"`
	List   string           `json:"list"`
	Sort   queries.SortMode `json:"sort"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bucket list items",
	Long: `List items with optional filtering and sorting.

Every filter narrows the list. Categories match any of the given values,
interests must all be present, and every search keyword must appear in the
title, description, location or category. Year, month and season filters
only match completed items by their completion date.

Sort Options:
  --sort date       Newest first (completion date for --done)
  --sort distance   Nearest first, requires --near

Examples:
  bucketlist list
  bucketlist list --done --year 2024
  bucketlist list --category Travel --category Food
  bucketlist list --interest hiking --search "national park"
  bucketlist list --sort distance --near 52.52,13.40`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListItemsHandler == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		query := queries.ListItemsQuery{
			Filter: queries.Filter{
				Member:     listMember,
				Categories: listCategories,
				Interests:  listInterests,
				Keywords:   strings.Fields(listSearch),
				Year:       listYear,
			},
			List: queries.ListActive,
			Sort: queries.SortMode(strings.ToLower(listSort)),
		}
		if listCompleted {
			query.List = queries.ListCompleted
		}
		if listMonth != 0 {
			if listMonth < 1 || listMonth > 12 {
				return fmt.Errorf("invalid --month %d, use 1-12", listMonth)
			}
			query.Filter.Month = time.Month(listMonth)
		}
		if listSeason != "" {
			season, ok := domain.ParseSeason(listSeason)
			if !ok {
				return fmt.Errorf("invalid --season %q", listSeason)
			}
			query.Filter.Season = season
		}
		if query.Sort != queries.SortByDate && query.Sort != queries.SortByDistance {
			return fmt.Errorf("invalid --sort %q, use date or distance", listSort)
		}
		if listNear != "" {
			coords, err := proximity.ParseCoordinates(listNear)
			if err != nil {
				return fmt.Errorf("invalid --near: %w", err)
			}
			query.UserLocation = &coords
		}

		view, err := app.ListItemsHandler.Handle(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		if listJSON {
			res := listOutput{Items: make([]listRow, 0, len(view.Items)), Counts: view.Counts, List: string(query.List), Sort: query.Sort}
			for _, row := range view.Items {
				r := listRow{Item: row.Item}
				if row.HasDistance {
					d := row.DistanceMeters
					r.DistanceMeters = &d
				}
				res.Items = append(res.Items, r)
			}
			return json.NewEncoder(out).Encode(res)
		}

		unit := distanceUnit(cmd)
		c := view.Counts
		fmt.Fprintf(out, "%d done · %d to go · %d%% complete\n", c.Done, c.Pending, c.Percent)
		if len(view.Items) == 0 {
			fmt.Fprintln(out, "No items found.")
			return nil
		}
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, row := range view.Items {
			it := row.Item
			line := fmt.Sprintf("%s %s  %s", shortID(it.ID), typeIcon(it.Type), it.Title)
			if it.Category != "" {
				line += " [" + it.Category + "]"
			}
			if row.HasDistance {
				line += " · " + geo.FormatDistance(row.DistanceMeters, unit)
			}
			if it.Completed {
				line += " ✓ " + formatDate(it.CompletedAt)
			}
			if len(it.Itinerary) > 0 {
				done, total := it.StopProgress()
				line += fmt.Sprintf(" (%d/%d stops)", done, total)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

// distanceUnit returns the preferred unit, kilometers when settings are
// unavailable.
func distanceUnit(cmd *cobra.Command) geo.Unit {
	app := GetApp()
	if app == nil || app.SettingsService == nil {
		return geo.UnitKilometers
	}
	s, err := app.SettingsService.Get(cmd.Context())
	if err != nil {
		return geo.UnitKilometers
	}
	return s.DistanceUnit
}

func init() {
	listCmd.Flags().BoolVar(&listCompleted, "done", false, "show completed items instead of active ones")
	listCmd.Flags().StringVar(&listMember, "member", queries.MemberAll, `family member ("All", "Me" or a name)`)
	listCmd.Flags().StringSliceVar(&listCategories, "category", nil, "category (repeatable, any match)")
	listCmd.Flags().StringSliceVar(&listInterests, "interest", nil, "interest tag (repeatable, all must match)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "search keywords")
	listCmd.Flags().IntVar(&listYear, "year", 0, "completion year")
	listCmd.Flags().IntVar(&listMonth, "month", 0, "completion month (1-12)")
	listCmd.Flags().StringVar(&listSeason, "season", "", "completion season (winter, spring, summer, fall)")
	listCmd.Flags().StringVar(&listSort, "sort", string(queries.SortByDate), "sort order (date, distance)")
	listCmd.Flags().StringVar(&listNear, "near", "", "your location as lat,lng")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
}
