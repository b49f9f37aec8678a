package proximity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

type capturePublisher struct {
	routingKey string
	payload    []byte
	err        error
}

func (p *capturePublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.routingKey = routingKey
	p.payload = payload
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func TestConsoleNotifier(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	n := NewConsoleNotifier(&buf)

	require.NoError(t, n.Speak(ctx, "You are near Eiffel Tower"))
	require.NoError(t, n.Push(ctx, Push{Title: "Nearby: Eiffel Tower", Body: "Eiffel Tower is 73m away"}))
	require.NoError(t, n.Toast(ctx, "hello"))
	require.NoError(t, n.Haptic(ctx))

	assert.Equal(t,
		"  [voice] You are near Eiffel Tower\n"+
			"  [notify] Nearby: Eiffel Tower: Eiffel Tower is 73m away\n"+
			"  hello\n"+
			"\a",
		buf.String())
}

func TestPushNotifier(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	n := NewPushNotifier(pub)

	require.NoError(t, n.Speak(ctx, "ignored"))
	assert.Nil(t, pub.payload)

	require.NoError(t, n.Push(ctx, Push{Title: "Nearby: Kyoto", Body: "Kyoto is 1.2km away", Tag: "item-1"}))
	assert.Equal(t, domain.RoutingKeyProximityAlert, pub.routingKey)

	var event eventbus.ConsumedEvent
	require.NoError(t, json.Unmarshal(pub.payload, &event))
	var got Push
	require.NoError(t, event.Decode(&got))
	assert.Equal(t, "item-1", got.Tag)
	assert.Equal(t, "Kyoto is 1.2km away", got.Body)
}

func TestMultiNotifier(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	ok := &recordingNotifier{}
	failing := &recordingNotifier{fail: boom}

	m := MultiNotifier{failing, nil, ok}
	err := m.Toast(ctx, "hi")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"toast:hi"}, ok.Calls(), "later notifiers still run")
	assert.NoError(t, MultiNotifier{ok}.Haptic(ctx))
}
