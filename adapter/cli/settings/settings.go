// Package settings provides the settings and vocabulary commands.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/bucketlist/adapter/cli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errNotConfigured = errors.New("settings service not configured")

var showOutput string

var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change settings",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SettingsService == nil {
			return errNotConfigured
		}
		s, err := app.SettingsService.Get(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(showOutput) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		case "yaml", "":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(s); err != nil {
				return err
			}
			return enc.Close()
		default:
			return fmt.Errorf("invalid --output %q, use yaml or json", showOutput)
		}
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting.

Keys:
  theme                  light, dark, system
  proximityRange         alert radius in meters
  travelMode             driving, walking, bicycling, transit
  distanceUnit           km, mi
  notificationsEnabled   true, false
  voiceAlertsEnabled     true, false
  autoBackupEnabled      true, false

Examples:
  bucketlist settings set proximityRange 500
  bucketlist settings set distanceUnit mi`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SettingsService == nil {
			return errNotConfigured
		}
		if _, err := app.SettingsService.Set(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "output format (yaml, json)")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(vocabCmd)
}
