package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/queries"
	"github.com/felixgeelhaar/bucketlist/internal/notifications"
	"github.com/spf13/cobra"
)

// insightPending caps the open titles included in the insight summary.
const insightPending = 5

var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Get a short AI insight about your list",
	Long: `Summarize the list and ask the drafting service for a motivational
insight. The insight is printed and kept in your notifications.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.DraftingService == nil || app.GetDashboardHandler == nil || app.ListItemsHandler == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()

		d, err := app.GetDashboardHandler.Handle(ctx)
		if err != nil {
			return fmt.Errorf("failed to build dashboard: %w", err)
		}
		view, err := app.ListItemsHandler.Handle(ctx, queries.ListItemsQuery{List: queries.ListActive})
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		text := app.DraftingService.Insight(ctx, insightSummary(d, view))
		fmt.Fprintf(cmd.OutOrStdout(), "💡 %s\n", text)

		if app.NotificationService != nil {
			if _, err := app.NotificationService.Add(ctx, notifications.Notification{
				Title:   "Bucket list insight",
				Message: text,
				Type:    notifications.TypeInsight,
			}); err != nil {
				return fmt.Errorf("failed to save insight: %w", err)
			}
		}
		return nil
	},
}

// insightSummary renders the plain-text list summary sent to the model.
func insightSummary(d *queries.Dashboard, view *queries.ItemListView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d items, %d completed (%.0f%%).", d.Total, d.Completed, d.CompletionRate*100)
	if d.ExplorerDistanceMeters > 0 {
		fmt.Fprintf(&b, " Explorer rank %s after %.0f km.", d.Rank, d.ExplorerDistanceMeters/1000)
	}
	if len(d.Categories) > 0 {
		parts := make([]string, 0, len(d.Categories))
		for _, c := range d.Categories {
			parts = append(parts, fmt.Sprintf("%s %d", c.Category, c.Count))
		}
		fmt.Fprintf(&b, " Completed by category: %s.", strings.Join(parts, ", "))
	}
	if len(view.Items) > 0 {
		titles := make([]string, 0, insightPending)
		for _, row := range view.Items {
			if len(titles) == insightPending {
				break
			}
			titles = append(titles, row.Item.Title)
		}
		fmt.Fprintf(&b, " Still open: %s.", strings.Join(titles, "; "))
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(insightCmd)
}
