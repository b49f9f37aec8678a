package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/emersion/go-webdav"
)

// Credentials decorates outgoing requests with authentication.
type Credentials interface {
	Apply(ctx context.Context, req *http.Request) error
}

// BasicAuth is static username/password credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements Credentials.
func (b BasicAuth) Apply(_ context.Context, req *http.Request) error {
	if b.Username != "" || b.Password != "" {
		req.SetBasicAuth(b.Username, b.Password)
	}
	return nil
}

// WebDAVStore keeps blobs in a WebDAV collection. Names are resolved
// relative to the collection URL.
type WebDAVStore struct {
	client    *webdav.Client
	transport *statusTransport
	logger    *slog.Logger
}

// NewWebDAVStore creates a store for the collection at baseURL.
func NewWebDAVStore(baseURL string, creds Credentials, logger *slog.Logger) (*WebDAVStore, error) {
	if baseURL == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}
	transport := &statusTransport{creds: creds, base: http.DefaultTransport}
	httpClient := &http.Client{Timeout: 30 * time.Second, Transport: transport}

	client, err := webdav.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}
	return &WebDAVStore{client: client, transport: transport, logger: logger}, nil
}

// Put implements Store.
func (s *WebDAVStore) Put(ctx context.Context, name string, data []byte) error {
	s.transport.reset()
	w, err := s.client.Create(ctx, name)
	if err != nil {
		return s.classify(err)
	}
	_, werr := w.Write(data)
	// Close waits for the PUT response.
	if err := errors.Join(werr, w.Close()); err != nil {
		return s.classify(err)
	}
	s.logger.DebugContext(ctx, "uploaded backup", "name", name, "bytes", len(data))
	return nil
}

// Get implements Store.
func (s *WebDAVStore) Get(ctx context.Context, name string) ([]byte, error) {
	s.transport.reset()
	r, err := s.client.Open(ctx, name)
	if err != nil {
		return nil, s.classify(err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, s.classify(err)
	}
	return data, nil
}

// classify maps the last HTTP status seen by the transport onto the
// package errors.
func (s *WebDAVStore) classify(err error) error {
	switch s.transport.lastStatus() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if errors.Is(err, ErrUnauthorized) {
		return err
	}
	return fmt.Errorf("webdav: %w", err)
}

// statusTransport applies credentials and remembers the last error status.
type statusTransport struct {
	creds Credentials
	base  http.RoundTripper

	mu     sync.Mutex
	status int
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.creds != nil {
		if err := t.creds.Apply(req.Context(), req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		t.mu.Lock()
		t.status = resp.StatusCode
		t.mu.Unlock()
	}
	return resp, nil
}

func (t *statusTransport) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = 0
}

func (t *statusTransport) lastStatus() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
