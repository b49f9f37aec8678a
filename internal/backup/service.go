package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/interchange"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

// PutResult reports a successful upload.
type PutResult struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// GetResult carries a downloaded backup.
type GetResult struct {
	Items []*domain.Item `json:"items"`
}

// Service uploads and downloads the item collection.
type Service struct {
	store   Store
	auth    Reauthenticator
	sealer  crypto.Sealer
	metrics observability.Metrics
	now     func() time.Time
	logger  *slog.Logger
}

// NewService creates a backup service. auth and sealer are optional.
func NewService(store Store, auth Reauthenticator, sealer crypto.Sealer, metrics observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Service{
		store:   store,
		auth:    auth,
		sealer:  sealer,
		metrics: metrics,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock sets the clock used for result timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Put uploads items as a JSON array, sealed when a key is configured.
func (s *Service) Put(ctx context.Context, items []*domain.Item) (PutResult, error) {
	if s.store == nil {
		return PutResult{}, ErrNotConfigured
	}
	data, err := interchange.FormatJSON(items)
	if err != nil {
		return PutResult{}, err
	}
	if s.sealer != nil {
		if data, err = s.sealer.Seal(data); err != nil {
			return PutResult{}, fmt.Errorf("seal backup: %w", err)
		}
	}

	err = observability.TimeOperation(ctx, s.logger, s.metrics, "backup.put", func() error {
		return s.withReauth(ctx, func() error {
			return s.store.Put(ctx, FileName, data)
		})
	})
	if err != nil {
		return PutResult{}, err
	}

	s.metrics.Counter(observability.MetricBackupPuts, 1)
	s.logger.InfoContext(ctx, "backup uploaded", "items", len(items))
	return PutResult{Timestamp: s.now().UTC(), Count: len(items)}, nil
}

// Get downloads and decodes the backup.
func (s *Service) Get(ctx context.Context) (GetResult, error) {
	if s.store == nil {
		return GetResult{}, ErrNotConfigured
	}

	var data []byte
	err := observability.TimeOperation(ctx, s.logger, s.metrics, "backup.get", func() error {
		return s.withReauth(ctx, func() error {
			var err error
			data, err = s.store.Get(ctx, FileName)
			return err
		})
	})
	if err != nil {
		return GetResult{}, err
	}

	if crypto.IsSealed(data) {
		if s.sealer == nil {
			return GetResult{}, ErrEncrypted
		}
		if data, err = s.sealer.Open(data); err != nil {
			return GetResult{}, fmt.Errorf("open backup: %w", err)
		}
	}

	items, err := interchange.ParseJSON(data)
	if errors.Is(err, interchange.ErrEmptyImport) {
		return GetResult{Items: []*domain.Item{}}, nil
	}
	if err != nil {
		return GetResult{}, fmt.Errorf("decode backup: %w", err)
	}
	return GetResult{Items: items}, nil
}

// withReauth runs op and, when it fails with ErrUnauthorized, refreshes the
// credentials once and retries.
func (s *Service) withReauth(ctx context.Context, op func() error) error {
	err := op()
	if !errors.Is(err, ErrUnauthorized) || s.auth == nil {
		return err
	}

	s.logger.InfoContext(ctx, "backup credentials rejected, re-authenticating")
	s.metrics.Counter(observability.MetricBackupReauths, 1)
	if rerr := s.auth.Reauthenticate(ctx); rerr != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, rerr)
	}
	return op()
}
