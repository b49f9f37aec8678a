package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/drafting"
	"github.com/felixgeelhaar/bucketlist/internal/proximity"
	"github.com/felixgeelhaar/bucketlist/internal/settings"
	"github.com/spf13/cobra"
)

var (
	addType        string
	addDescription string
	addCategory    string
	addInterests   []string
	addOwner       string
	addLocation    string
	addAt          string
	addImages      []string
	addBestTime    string
	addDue         string
	addStart       string
	addEnd         string
	addStops       []string
	addDraft       bool
	addJSON        bool
)

var addCmd = &cobra.Command{
	Use:   "add [idea]",
	Short: "Add an item to the bucket list",
	Long: `Add a destination, goal or road trip.

With --draft the idea is sent to the AI drafting service, which fills in a
description, location, category, tags and itinerary. Flags given explicitly
always win over drafted values. When drafting is unavailable the idea is
added as typed.

Examples:
  bucketlist add "Learn to sail"
  bucketlist add "Machu Picchu" --type destination --draft
  bucketlist add "Route 66" --type roadtrip --stop Chicago --stop Tulsa
  bucketlist add "Eiffel Tower" --type destination --at 48.8584,2.2945 --category Travel`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.AddItemHandler == nil {
			return errNotInitialized
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		input := strings.Join(args, " ")
		itemType := domain.ParseType(addType)

		draft := &domain.Draft{Title: input}
		if addDraft {
			if app.DraftingService == nil {
				return fmt.Errorf("drafting service not configured")
			}
			var categories []string
			if app.SettingsService != nil {
				terms, err := app.SettingsService.Terms(ctx, settings.VocabCategories)
				if err != nil {
					return fmt.Errorf("failed to load categories: %w", err)
				}
				categories = terms
			}
			res := app.DraftingService.Draft(ctx, drafting.Request{
				Input:      input,
				Type:       itemType,
				Categories: categories,
			})
			draft = res.Draft
			if res.Fallback {
				fmt.Fprintln(out, "AI drafting unavailable, adding the idea as typed.")
			}
		}

		if err := applyDraftFlags(cmd, draft); err != nil {
			return err
		}

		due, err := parseOptionalDate(addDue)
		if err != nil {
			return err
		}
		start, err := parseOptionalDate(addStart)
		if err != nil {
			return err
		}
		end, err := parseOptionalDate(addEnd)
		if err != nil {
			return err
		}

		result, err := app.AddItemHandler.Handle(ctx, commands.AddItemCommand{
			Draft:     *draft,
			Type:      itemType,
			Owner:     addOwner,
			DueDate:   due,
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}

		if addJSON {
			return json.NewEncoder(out).Encode(result.Item)
		}
		fmt.Fprintf(out, "Added %s %s (%s)\n", typeIcon(result.Item.Type), result.Item.Title, shortID(result.Item.ID))
		return nil
	},
}

// applyDraftFlags overlays explicitly set flags on a draft.
func applyDraftFlags(cmd *cobra.Command, draft *domain.Draft) error {
	flags := cmd.Flags()
	if flags.Changed("description") {
		draft.Description = addDescription
	}
	if flags.Changed("category") {
		draft.Category = addCategory
	}
	if flags.Changed("interest") {
		draft.Interests = addInterests
	}
	if flags.Changed("location") {
		draft.LocationName = addLocation
	}
	if flags.Changed("image") {
		draft.Images = addImages
	}
	if flags.Changed("best-time") {
		draft.BestTimeToVisit = addBestTime
	}
	if flags.Changed("at") {
		coords, err := proximity.ParseCoordinates(addAt)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		draft.Coordinates = &coords
	}
	if flags.Changed("stop") {
		draft.Itinerary = nil
		for _, name := range addStops {
			draft.Itinerary = append(draft.Itinerary, domain.ItineraryStop{Name: name})
		}
	}
	return nil
}

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", string(domain.TypeGoal), "item type (destination, roadtrip, goal)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "description")
	addCmd.Flags().StringVar(&addCategory, "category", "", "category")
	addCmd.Flags().StringSliceVar(&addInterests, "interest", nil, "interest tag (repeatable)")
	addCmd.Flags().StringVar(&addOwner, "owner", "", "family member the item belongs to")
	addCmd.Flags().StringVar(&addLocation, "location", "", "location name")
	addCmd.Flags().StringVar(&addAt, "at", "", "coordinates as lat,lng")
	addCmd.Flags().StringSliceVar(&addImages, "image", nil, "image URL (repeatable)")
	addCmd.Flags().StringVar(&addBestTime, "best-time", "", "best time to visit")
	addCmd.Flags().StringVar(&addDue, "due", "", "target date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addStart, "start", "", "trip start date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "trip end date (YYYY-MM-DD)")
	addCmd.Flags().StringArrayVar(&addStops, "stop", nil, "itinerary stop name (repeatable)")
	addCmd.Flags().BoolVar(&addDraft, "draft", false, "draft details with AI")
	addCmd.Flags().BoolVar(&addJSON, "json", false, "output the created item as JSON")

	rootCmd.AddCommand(addCmd)
}
