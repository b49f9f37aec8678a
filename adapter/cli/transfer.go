package cli

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/interchange"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
	importFormat string
	importMerge  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the bucket list to CSV, JSON or PDF",
	Long: `Export every item.

CSV and JSON exports can be imported again. The PDF is a printable summary.
Without --output the file is written to the current directory as
bucket-list-<date>.<format>. Use --output - to write to stdout.

Examples:
  bucketlist export
  bucketlist export --format json --output backup.json
  bucketlist export --format pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ExportItemsHandler == nil {
			return errNotInitialized
		}
		format, err := interchange.ParseFormat(exportFormat)
		if err != nil {
			return fmt.Errorf("%w: %q, use csv, json or pdf", err, exportFormat)
		}

		res, err := app.ExportItemsHandler.Handle(cmd.Context(), commands.ExportItemsCommand{Format: format})
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput == "-" {
			_, err := out.Write(res.Data)
			return err
		}
		target := exportOutput
		if target == "" {
			target = res.Filename
		}
		written, err := security.WriteFile(target, res.Data)
		if err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(out, "Exported %d items to %s\n", res.Count, written)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import items from a CSV or JSON file",
	Long: `Import items from a CSV or JSON file, or from stdin with "-".

By default the imported items replace the whole list. With --merge, items
with a known id are updated in place and new ones are added at the top.
Nothing is changed when the file cannot be parsed.

Examples:
  bucketlist import bucket-list.csv
  bucketlist import backup.json --merge
  cat list.csv | bucketlist import - --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ImportItemsHandler == nil {
			return errNotInitialized
		}

		var format interchange.Format
		if importFormat != "" {
			f, err := interchange.ParseFormat(importFormat)
			if err != nil || f == interchange.PDF {
				return fmt.Errorf("invalid --format %q, use csv or json", importFormat)
			}
			format = f
		}

		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), security.MaxImportBytes))
		} else {
			data, err = security.ReadFile(args[0], security.MaxImportBytes)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		mode := commands.ImportReplace
		if importMerge {
			mode = commands.ImportMerge
		}
		res, err := app.ImportItemsHandler.Handle(cmd.Context(), commands.ImportItemsCommand{
			Data:     data,
			Filename: args[0],
			Format:   format,
			Mode:     mode,
		})
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		out := cmd.OutOrStdout()
		if mode == commands.ImportMerge {
			fmt.Fprintf(out, "Imported %d items from %s (%d new, %d updated, %d total)\n", res.Imported, res.Format, res.Added, res.Replaced, res.Total)
		} else {
			fmt.Fprintf(out, "Imported %d items from %s\n", res.Imported, res.Format)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(interchange.CSV), "export format (csv, json, pdf)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, - for stdout")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "input format (csv, json), detected when empty")
	importCmd.Flags().BoolVar(&importMerge, "merge", false, "merge into the current list instead of replacing it")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
