package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

var (
	verbose     bool
	showMetrics bool
	logger      *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bucketlist",
	Short: "Bucketlist - track the things you want to do before you die",
	Long: `Bucketlist keeps a personal bucket list of destinations, goals and
road trips. It can draft entries with AI, filter and rank your list,
watch your location for nearby items and back the list up to WebDAV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx = context.WithValue(ctx, commandContextKey{}, info)
		ctx = observability.WithCorrelationID(ctx, info.correlationID.String())
		cmd.SetContext(ctx)
		if verbose {
			logger.InfoContext(ctx, "command start", "command", cmd.CommandPath())
		} else {
			logger.DebugContext(ctx, "command start", "command", cmd.CommandPath())
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
		if showMetrics {
			if app := GetApp(); app != nil && app.Metrics != nil {
				printMetrics(cmd.ErrOrStderr(), app.Metrics)
			}
		}
	},
}

// Execute runs the root command. Errors are printed to stderr and returned
// so the caller can release resources before exiting.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print collected metrics to stderr when done")
}

func printMetrics(w io.Writer, m *observability.InMemoryMetrics) {
	snap := m.Snapshot()
	if len(snap) == 0 {
		return
	}
	fmt.Fprintln(w, "metrics:")
	for _, v := range snap {
		fmt.Fprintf(w, "  %-48s %g\n", v.Key, v.Value)
	}
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}
