package cli

import (
	"fmt"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/spf13/cobra"
)

var (
	doneOn    string
	doneStart string
	doneEnd   string
)

var doneCmd = &cobra.Command{
	Use:   "done <item>",
	Short: "Mark an item as completed",
	Long: `Mark an item as completed.

The completion date defaults to today and cannot be in the future. Trip
dates can be recorded at the same time.

Examples:
  bucketlist done "Learn to sail"
  bucketlist done 3f2a --on 2024-06-01
  bucketlist done "Route 66" --start 2024-05-01 --end 2024-05-14`,
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.CompleteItemHandler == nil || app.ItemRepo == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()

		item, err := resolveItem(ctx, app.ItemRepo, args[0])
		if err != nil {
			return err
		}
		at, err := parseDay(doneOn, app.now())
		if err != nil {
			return err
		}
		start, err := parseOptionalDate(doneStart)
		if err != nil {
			return err
		}
		end, err := parseOptionalDate(doneEnd)
		if err != nil {
			return err
		}

		completed, err := app.CompleteItemHandler.Handle(ctx, commands.CompleteItemCommand{
			ID:          item.ID,
			CompletedAt: at,
			StartDate:   start,
			EndDate:     end,
		})
		if err != nil {
			return fmt.Errorf("failed to complete item: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s completed on %s\n", completed.Title, formatDate(completed.CompletedAt))
		return nil
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <item>",
	Short: "Move a completed item back to the active list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ReopenItemHandler == nil || app.ItemRepo == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()

		item, err := resolveItem(ctx, app.ItemRepo, args[0])
		if err != nil {
			return err
		}
		reopened, err := app.ReopenItemHandler.Handle(ctx, commands.ReopenItemCommand{ID: item.ID})
		if err != nil {
			return fmt.Errorf("failed to reopen item: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", reopened.Title)
		return nil
	},
}

func init() {
	doneCmd.Flags().StringVar(&doneOn, "on", "", "completion date (YYYY-MM-DD, default today)")
	doneCmd.Flags().StringVar(&doneStart, "start", "", "trip start date (YYYY-MM-DD)")
	doneCmd.Flags().StringVar(&doneEnd, "end", "", "trip end date (YYYY-MM-DD)")

	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(reopenCmd)
}
