package cli

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/bucketlist/pkg/observability"
	"github.com/spf13/cobra"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Check storage and the optional integrations",
	Aliases: []string{"health"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return errNotInitialized
		}
		results := app.Health.Check(cmd.Context())
		overall := observability.OverallStatus(results)

		out := cmd.OutOrStdout()
		if doctorJSON {
			return json.NewEncoder(out).Encode(map[string]any{
				"status":     overall,
				"components": results,
			})
		}

		for _, r := range results {
			fmt.Fprintf(out, "%s %-14s %s\n", statusIcon(r.Status), r.Name, r.Message)
		}
		fmt.Fprintf(out, "\nOverall: %s\n", overall)
		if overall == observability.HealthStatusUnhealthy {
			return fmt.Errorf("bucketlist is %s", overall)
		}
		return nil
	},
}

func statusIcon(s observability.HealthStatus) string {
	switch s {
	case observability.HealthStatusHealthy:
		return "✓"
	case observability.HealthStatusDegraded:
		return "!"
	case observability.HealthStatusDisabled:
		return "-"
	default:
		return "✗"
	}
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(doctorCmd)
}
