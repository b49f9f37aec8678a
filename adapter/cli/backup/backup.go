// Package backup provides the cloud backup commands.
package backup

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/bucketlist/adapter/cli"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/application/commands"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/spf13/cobra"
)

var errNotConfigured = errors.New("backup not configured, set BACKUP_WEBDAV_URL")

var pullDryRun bool

var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the list to WebDAV, or restore it",
	Long: `Back up the bucket list to a WebDAV share as a single JSON file.

Configure the share with BACKUP_WEBDAV_URL and either BACKUP_USERNAME and
BACKUP_PASSWORD or the BACKUP_OAUTH_* variables. Set BACKUP_ENCRYPTION_KEY
to encrypt the file before upload.`,
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the current list",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ItemRepo == nil {
			return errors.New("application not initialized")
		}
		if app.BackupService == nil {
			return errNotConfigured
		}
		ctx := cmd.Context()

		items, err := app.ItemRepo.FindAll(ctx)
		if err != nil {
			return err
		}
		res, err := app.BackupService.Put(ctx, items)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d items at %s\n", res.Count, res.Timestamp.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the current list with the backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ReplaceAllHandler == nil {
			return errors.New("application not initialized")
		}
		if app.BackupService == nil {
			return errNotConfigured
		}
		ctx := cmd.Context()

		res, err := app.BackupService.Get(ctx)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		out := cmd.OutOrStdout()
		if pullDryRun {
			fmt.Fprintf(out, "Backup contains %d items, nothing changed\n", len(res.Items))
			return nil
		}
		if err := app.ReplaceAllHandler.Handle(ctx, commands.ReplaceAllCommand{
			Items:  res.Items,
			Reason: domain.ChangeRestored,
		}); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Fprintf(out, "Restored %d items\n", len(res.Items))
		return nil
	},
}

func init() {
	pullCmd.Flags().BoolVar(&pullDryRun, "dry-run", false, "download and decode without changing the list")

	Cmd.AddCommand(pushCmd)
	Cmd.AddCommand(pullCmd)
}
