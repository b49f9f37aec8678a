package cli

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/proximity"
	"github.com/spf13/cobra"
)

var (
	editTitle       string
	editType        string
	editDescription string
	editCategory    string
	editInterests   []string
	editOwner       string
	editLocation    string
	editAt          string
	editClearAt     bool
	editBestTime    string
	editDue         string
	editStart       string
	editEnd         string
	editAddStops    []string
	editJSON        bool
)

var editCmd = &cobra.Command{
	Use:   "edit <item>",
	Short: "Edit an item",
	Long: `Edit an item. Only the flags you pass are changed.

The item can be referenced by id, unique id prefix or exact title.

Examples:
  bucketlist edit 3f2a --title "See the aurora in Tromsø"
  bucketlist edit "Route 66" --add-stop "Flagstaff"
  bucketlist edit "Eiffel Tower" --clear-location`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.UpdateItemHandler == nil || app.ItemRepo == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()

		item, err := resolveItem(ctx, app.ItemRepo, args[0])
		if err != nil {
			return err
		}

		update := commands.UpdateItemCommandFrom(item)
		flags := cmd.Flags()
		if flags.Changed("title") {
			update.Title = editTitle
		}
		if flags.Changed("type") {
			update.Type = domain.ParseType(editType)
		}
		if flags.Changed("description") {
			update.Description = editDescription
		}
		if flags.Changed("category") {
			update.Category = editCategory
		}
		if flags.Changed("interest") {
			update.Interests = editInterests
		}
		if flags.Changed("owner") {
			update.Owner = editOwner
		}
		if flags.Changed("location") {
			update.LocationName = editLocation
		}
		if flags.Changed("best-time") {
			update.BestTimeToVisit = editBestTime
		}
		if flags.Changed("at") {
			coords, err := proximity.ParseCoordinates(editAt)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			update.Coordinates = &coords
		}
		if editClearAt {
			update.Coordinates = nil
			update.LocationName = ""
		}
		if flags.Changed("due") {
			if update.DueDate, err = parseOptionalDate(editDue); err != nil {
				return err
			}
		}
		if flags.Changed("start") {
			if update.StartDate, err = parseOptionalDate(editStart); err != nil {
				return err
			}
		}
		if flags.Changed("end") {
			if update.EndDate, err = parseOptionalDate(editEnd); err != nil {
				return err
			}
		}
		for _, name := range editAddStops {
			update.Itinerary = append(update.Itinerary, domain.ItineraryStop{ID: domain.NewID(), Name: name})
		}

		updated, err := app.UpdateItemHandler.Handle(ctx, update)
		if err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		if editJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(updated)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", updated.Title, shortID(updated.ID))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVarP(&editType, "type", "t", "", "item type (destination, roadtrip, goal)")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "description")
	editCmd.Flags().StringVar(&editCategory, "category", "", "category")
	editCmd.Flags().StringSliceVar(&editInterests, "interest", nil, "interest tags, replaces the current set")
	editCmd.Flags().StringVar(&editOwner, "owner", "", "family member the item belongs to")
	editCmd.Flags().StringVar(&editLocation, "location", "", "location name")
	editCmd.Flags().StringVar(&editAt, "at", "", "coordinates as lat,lng")
	editCmd.Flags().BoolVar(&editClearAt, "clear-location", false, "remove the location and coordinates")
	editCmd.Flags().StringVar(&editBestTime, "best-time", "", "best time to visit")
	editCmd.Flags().StringVar(&editDue, "due", "", "target date (YYYY-MM-DD), empty to clear")
	editCmd.Flags().StringVar(&editStart, "start", "", "trip start date (YYYY-MM-DD), empty to clear")
	editCmd.Flags().StringVar(&editEnd, "end", "", "trip end date (YYYY-MM-DD), empty to clear")
	editCmd.Flags().StringArrayVar(&editAddStops, "add-stop", nil, "append an itinerary stop (repeatable)")
	editCmd.Flags().BoolVar(&editJSON, "json", false, "output the updated item as JSON")

	rootCmd.AddCommand(editCmd)
}
