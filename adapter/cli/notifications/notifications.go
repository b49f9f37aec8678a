// Package notifications provides the in-app notification commands.
package notifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/bucketlist/adapter/cli"
	"github.com/spf13/cobra"
)

var errNotConfigured = errors.New("notification service not configured")

var (
	listJSON   bool
	listUnread bool
	readAll    bool
)

var Cmd = &cobra.Command{
	Use:     "notifications",
	Short:   "Show and manage notifications from the last 24 hours",
	Aliases: []string{"inbox"},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List notifications",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.NotificationService == nil {
			return errNotConfigured
		}
		list, err := app.NotificationService.List(cmd.Context())
		if err != nil {
			return err
		}
		if listUnread {
			unread := list[:0]
			for _, n := range list {
				if !n.Read {
					unread = append(unread, n)
				}
			}
			list = unread
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return json.NewEncoder(out).Encode(list)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No notifications.")
			return nil
		}
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, n := range list {
			mark := " "
			if !n.Read {
				mark = "•"
			}
			fmt.Fprintf(out, "%s %s [%s] %s\n", mark, n.ID[:min(8, len(n.ID))], n.Timestamp.Time().Local().Format("15:04"), n.Title)
			if n.Message != "" {
				fmt.Fprintf(out, "    %s\n", n.Message)
			}
		}
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Mark a notification, or all with --all, as read",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.NotificationService == nil {
			return errNotConfigured
		}
		ctx := cmd.Context()
		if readAll {
			if err := app.NotificationService.MarkAllRead(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All notifications marked as read.")
			return nil
		}
		if len(args) == 0 {
			return errors.New("notification id required, or use --all")
		}

		id := args[0]
		list, err := app.NotificationService.List(ctx)
		if err != nil {
			return err
		}
		for _, n := range list {
			if strings.HasPrefix(n.ID, id) {
				id = n.ID
				break
			}
		}
		if err := app.NotificationService.MarkRead(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Marked as read.")
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.NotificationService == nil {
			return errNotConfigured
		}
		if err := app.NotificationService.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Notifications cleared.")
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	listCmd.Flags().BoolVar(&listUnread, "unread", false, "only unread notifications")
	readCmd.Flags().BoolVar(&readAll, "all", false, "mark every notification as read")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(readCmd)
	Cmd.AddCommand(clearCmd)
}
