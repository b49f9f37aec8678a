package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/adapter/cli"
	appNotifications "github.com/felixgeelhaar/bucketlist/internal/notifications"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) *appNotifications.Service {
	t.Helper()
	svc := appNotifications.NewService(kv.NewMemoryStore(), func() time.Time { return testNow })
	cli.SetApp(&cli.App{NotificationService: svc})
	t.Cleanup(func() { cli.SetApp(nil) })
	return svc
}

func run(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	defer cmd.SetOut(nil)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestNotificationCommands(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	out, err := run(listCmd)
	require.NoError(t, err)
	assert.Equal(t, "No notifications.\n", out)

	first, err := svc.Add(ctx, appNotifications.Notification{Title: "Bucket list item nearby", Message: "You are 73m from Louvre", Type: appNotifications.TypeLocation})
	require.NoError(t, err)
	_, err = svc.Add(ctx, appNotifications.Notification{Title: "Bucket list insight", Type: appNotifications.TypeInsight})
	require.NoError(t, err)

	out, err = run(listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "• ")
	assert.Contains(t, out, "You are 73m from Louvre")

	_, err = run(readCmd, first.ID[:8])
	require.NoError(t, err)

	listUnread, listJSON = true, true
	t.Cleanup(func() { listUnread, listJSON = false, false })
	out, err = run(listCmd)
	require.NoError(t, err)
	var unread []appNotifications.Notification
	require.NoError(t, json.Unmarshal([]byte(out), &unread))
	require.Len(t, unread, 1)
	assert.Equal(t, "Bucket list insight", unread[0].Title)

	_, err = run(readCmd)
	assert.Error(t, err)

	readAll = true
	t.Cleanup(func() { readAll = false })
	_, err = run(readCmd)
	require.NoError(t, err)
	count, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = run(clearCmd)
	require.NoError(t, err)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMarkUnknown(t *testing.T) {
	setup(t)
	_, err := run(readCmd, "nope")
	assert.ErrorIs(t, err, appNotifications.ErrNotFound)
}
