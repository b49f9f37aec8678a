package proximity

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

// ErrInvalidCoordinates is returned when a location update cannot be parsed.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// LocationSource pushes location updates. Watch blocks, calling update for
// every position, until the source is exhausted or ctx is cancelled.
type LocationSource interface {
	Watch(ctx context.Context, update func(geo.Coordinates)) error
}

// ParseCoordinates parses "lat,lng" (spaces allowed) or a JSON object with
// latitude and longitude.
func ParseCoordinates(s string) (geo.Coordinates, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		var c geo.Coordinates
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return geo.Coordinates{}, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
		}
		return validated(c)
	}

	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Coordinates{}, fmt.Errorf("%w: expected lat,lng", ErrInvalidCoordinates)
	}
	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinates, lat)
	}
	lngF, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinates, lng)
	}
	return validated(geo.Coordinates{Latitude: latF, Longitude: lngF})
}

func validated(c geo.Coordinates) (geo.Coordinates, error) {
	if !c.Valid() || c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return geo.Coordinates{}, ErrInvalidCoordinates
	}
	return c, nil
}

// StaticSource reports a single fixed position.
type StaticSource struct {
	Coordinates geo.Coordinates
}

// Watch implements LocationSource.
func (s StaticSource) Watch(_ context.Context, update func(geo.Coordinates)) error {
	update(s.Coordinates)
	return nil
}

// ReaderSource reads one position per line. Blank lines and lines starting
// with '#' are skipped; unparseable lines are logged and skipped.
type ReaderSource struct {
	r      io.Reader
	logger *slog.Logger
}

// NewReaderSource creates a source reading from r.
func NewReaderSource(r io.Reader, logger *slog.Logger) *ReaderSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReaderSource{r: r, logger: logger}
}

// Watch implements LocationSource.
func (s *ReaderSource) Watch(ctx context.Context, update func(geo.Coordinates)) error {
	scanner := bufio.NewScanner(s.r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := ParseCoordinates(line)
		if err != nil {
			s.logger.Warn("skipping location line", "line", line, "error", err)
			continue
		}
		update(c)
	}
	return scanner.Err()
}

// RedisSource subscribes to a Redis pub/sub channel carrying JSON
// coordinates.
type RedisSource struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisSource creates a source subscribed to channel.
func NewRedisSource(client *redis.Client, channel string, logger *slog.Logger) *RedisSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSource{client: client, channel: channel, logger: logger}
}

// Watch implements LocationSource.
func (s *RedisSource) Watch(ctx context.Context, update func(geo.Coordinates)) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	s.logger.Debug("subscribed to location channel", "channel", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c, err := ParseCoordinates(msg.Payload)
			if err != nil {
				s.logger.Warn("failed to decode location from redis", "error", err)
				continue
			}
			update(c)
		}
	}
}

// WebSocketSource reads JSON coordinates pushed by a companion device over a
// websocket.
type WebSocketSource struct {
	url    string
	dialer *websocket.Dialer
	logger *slog.Logger
}

// NewWebSocketSource creates a source that dials url.
func NewWebSocketSource(url string, logger *slog.Logger) *WebSocketSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketSource{url: url, dialer: websocket.DefaultDialer, logger: logger}
}

// Watch implements LocationSource.
func (s *WebSocketSource) Watch(ctx context.Context, update func(geo.Coordinates)) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial location websocket: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read location websocket: %w", err)
		}
		c, err := ParseCoordinates(string(data))
		if err != nil {
			s.logger.Warn("failed to decode location from websocket", "error", err)
			continue
		}
		update(c)
	}
}
