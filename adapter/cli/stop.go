package cli

import (
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/spf13/cobra"
)

var (
	stopSpawn bool
	stopOn    string
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Manage itinerary stops of a destination or road trip",
	Long: `Manage itinerary stops. Stops are addressed by their zero-based index as
printed by "bucketlist show".`,
}

var stopDoneCmd = &cobra.Command{
	Use:   "done <item> <index>",
	Short: "Mark a stop as visited",
	Long: `Mark a stop as visited.

With --spawn a separate completed destination is added for the stop, so it
counts on its own in statistics.

Examples:
  bucketlist stop done "Route 66" 2
  bucketlist stop done "Route 66" 2 --spawn --on 2024-05-03`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.CompleteStopHandler == nil || app.ItemRepo == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()

		item, err := resolveItem(ctx, app.ItemRepo, args[0])
		if err != nil {
			return err
		}
		index, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		at, err := parseDay(stopOn, app.now())
		if err != nil {
			return err
		}

		res, err := app.CompleteStopHandler.Handle(ctx, commands.CompleteStopCommand{
			ItemID:      item.ID,
			StopIndex:   index,
			CompletedAt: at,
			Spawn:       stopSpawn,
		})
		if err != nil {
			return fmt.Errorf("failed to complete stop: %w", err)
		}

		out := cmd.OutOrStdout()
		done, total := res.Item.StopProgress()
		fmt.Fprintf(out, "✓ %s (%d/%d stops)\n", res.Item.Itinerary[index].Name, done, total)
		if res.Spawned != nil {
			fmt.Fprintf(out, "Added %s as a completed destination (%s)\n", res.Spawned.Title, shortID(res.Spawned.ID))
		}
		return nil
	},
}

var stopReopenCmd = &cobra.Command{
	Use:   "reopen <item> <index>",
	Short: "Mark a stop as not visited",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ReopenStopHandler == nil || app.ItemRepo == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()

		item, err := resolveItem(ctx, app.ItemRepo, args[0])
		if err != nil {
			return err
		}
		index, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		updated, err := app.ReopenStopHandler.Handle(ctx, commands.ReopenStopCommand{ItemID: item.ID, StopIndex: index})
		if err != nil {
			return fmt.Errorf("failed to reopen stop: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", updated.Itinerary[index].Name)
		return nil
	},
}

var stopMoveCmd = &cobra.Command{
	Use:   "move <item> <from> <to>",
	Short: "Reorder a stop",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ReorderStopHandler == nil || app.ItemRepo == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()

		item, err := resolveItem(ctx, app.ItemRepo, args[0])
		if err != nil {
			return err
		}
		from, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		to, err := parseIndex(args[2])
		if err != nil {
			return err
		}
		updated, err := app.ReorderStopHandler.Handle(ctx, commands.ReorderStopCommand{ItemID: item.ID, From: from, To: to})
		if err != nil {
			return fmt.Errorf("failed to move stop: %w", err)
		}

		out := cmd.OutOrStdout()
		for i, stop := range updated.Itinerary {
			fmt.Fprintf(out, "%d. %s\n", i, stop.Name)
		}
		return nil
	},
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid stop index %q", s)
	}
	return n, nil
}

func init() {
	stopDoneCmd.Flags().BoolVar(&stopSpawn, "spawn", false, "also add the stop as a completed destination")
	stopDoneCmd.Flags().StringVar(&stopOn, "on", "", "visit date (YYYY-MM-DD, default today)")

	stopCmd.AddCommand(stopDoneCmd)
	stopCmd.AddCommand(stopReopenCmd)
	stopCmd.AddCommand(stopMoveCmd)
	rootCmd.AddCommand(stopCmd)
}
