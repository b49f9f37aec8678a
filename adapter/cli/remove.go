package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/spf13/cobra"
)

var (
	removeAll bool
	removeYes bool
)

var removeCmd = &cobra.Command{
	Use:   "rm [item]",
	Short: "Remove an item, or clear the whole list",
	Long: `Remove an item from the bucket list.

With --all every item is deleted. This cannot be undone and requires --yes.

Examples:
  bucketlist rm "Learn to sail"
  bucketlist rm --all --yes`,
	Aliases: []string{"remove", "delete"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.RemoveItemHandler == nil || app.ItemRepo == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if removeAll {
			if !removeYes {
				return errors.New("refusing to clear the list without --yes")
			}
			if app.ReplaceAllHandler == nil {
				return errNotInitialized
			}
			if err := app.ReplaceAllHandler.Handle(ctx, commands.ReplaceAllCommand{}); err != nil {
				return fmt.Errorf("failed to clear items: %w", err)
			}
			fmt.Fprintln(out, "All items removed.")
			return nil
		}

		if len(args) == 0 {
			return errors.New("item reference required")
		}
		item, err := resolveItem(ctx, app.ItemRepo, args[0])
		if err != nil {
			return err
		}
		if err := app.RemoveItemHandler.Handle(ctx, commands.RemoveItemCommand{ID: item.ID}); err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		fmt.Fprintf(out, "Removed %s\n", item.Title)
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeAll, "all", false, "remove every item")
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "confirm destructive operations")
	rootCmd.AddCommand(removeCmd)
}
