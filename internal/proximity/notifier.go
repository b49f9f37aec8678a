package proximity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

// Push is an OS-level notification. Tag lets the sink collapse repeats.
type Push struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// Notifier is the set of side-effect channels the engine drives when an
// alert fires. Implementations may return errors; the engine logs them and
// moves on.
type Notifier interface {
	Speak(ctx context.Context, text string) error
	Push(ctx context.Context, p Push) error
	Toast(ctx context.Context, message string) error
	Haptic(ctx context.Context) error
}

// ConsoleNotifier writes every channel to a terminal.
type ConsoleNotifier struct {
	w  io.Writer
	mu sync.Mutex
}

// NewConsoleNotifier creates a notifier writing to w.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (n *ConsoleNotifier) printf(format string, args ...any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, format, args...)
	return err
}

// Speak implements Notifier.
func (n *ConsoleNotifier) Speak(_ context.Context, text string) error {
	return n.printf("  [voice] %s\n", text)
}

// Push implements Notifier.
func (n *ConsoleNotifier) Push(_ context.Context, p Push) error {
	return n.printf("  [notify] %s: %s\n", p.Title, p.Body)
}

// Toast implements Notifier.
func (n *ConsoleNotifier) Toast(_ context.Context, message string) error {
	return n.printf("  %s\n", message)
}

// Haptic rings the terminal bell.
func (n *ConsoleNotifier) Haptic(_ context.Context) error {
	return n.printf("\a")
}

// PushNotifier forwards push notifications to a message broker so a
// companion device can display them. The other channels are no-ops.
type PushNotifier struct {
	publisher eventbus.Publisher
}

// NewPushNotifier creates a notifier publishing on publisher.
func NewPushNotifier(publisher eventbus.Publisher) *PushNotifier {
	return &PushNotifier{publisher: publisher}
}

// Speak implements Notifier.
func (n *PushNotifier) Speak(context.Context, string) error { return nil }

// Toast implements Notifier.
func (n *PushNotifier) Toast(context.Context, string) error { return nil }

// Haptic implements Notifier.
func (n *PushNotifier) Haptic(context.Context) error { return nil }

// Push publishes p as a proximity alert event.
func (n *PushNotifier) Push(ctx context.Context, p Push) error {
	event, err := eventbus.NewEvent(ctx, domain.RoutingKeyProximityAlert, p)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode proximity alert: %w", err)
	}
	return n.publisher.Publish(ctx, domain.RoutingKeyProximityAlert, data)
}

// MultiNotifier fans every call out to all notifiers.
type MultiNotifier []Notifier

// Speak implements Notifier.
func (m MultiNotifier) Speak(ctx context.Context, text string) error {
	return m.each(func(n Notifier) error { return n.Speak(ctx, text) })
}

// Push implements Notifier.
func (m MultiNotifier) Push(ctx context.Context, p Push) error {
	return m.each(func(n Notifier) error { return n.Push(ctx, p) })
}

// Toast implements Notifier.
func (m MultiNotifier) Toast(ctx context.Context, message string) error {
	return m.each(func(n Notifier) error { return n.Toast(ctx, message) })
}

// Haptic implements Notifier.
func (m MultiNotifier) Haptic(ctx context.Context) error {
	return m.each(func(n Notifier) error { return n.Haptic(ctx) })
}

func (m MultiNotifier) each(fn func(Notifier) error) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := fn(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
