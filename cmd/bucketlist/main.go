package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/bucketlist/adapter/cli"
	cliBackup "github.com/felixgeelhaar/bucketlist/adapter/cli/backup"
	cliNotifications "github.com/felixgeelhaar/bucketlist/adapter/cli/notifications"
	cliSettings "github.com/felixgeelhaar/bucketlist/adapter/cli/settings"
	"github.com/felixgeelhaar/bucketlist/internal/app"
	"github.com/felixgeelhaar/bucketlist/pkg/config"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv(cli.Version)
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	// Cancel on SIGINT/SIGTERM so the radar and backups stop cleanly
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	cli.SetApp(cli.NewApp(container))

	cli.AddCommand(cliSettings.Cmd)
	cli.AddCommand(cliNotifications.Cmd)
	cli.AddCommand(cliBackup.Cmd)

	code := 0
	if err := cli.Execute(ctx); err != nil {
		code = 1
	}
	if err := container.Close(); err != nil {
		logger.Warn("failed to close resources", "error", err)
	}
	os.Exit(code)
}
