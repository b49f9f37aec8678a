package cli

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
	"github.com/felixgeelhaar/bucketlist/internal/proximity"
	"github.com/spf13/cobra"
)

var (
	showNear string
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show <item>",
	Short: "Show the details of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ItemRepo == nil {
			return errNotInitialized
		}
		item, err := resolveItem(cmd.Context(), app.ItemRepo, args[0])
		if err != nil {
			return err
		}
		if showJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(item)
		}

		var user *geo.Coordinates
		if showNear != "" {
			coords, err := proximity.ParseCoordinates(showNear)
			if err != nil {
				return fmt.Errorf("invalid --near: %w", err)
			}
			user = &coords
		}
		printItemDetail(cmd.OutOrStdout(), item, distanceUnit(cmd), user)
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showNear, "near", "", "your location as lat,lng")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(showCmd)
}
