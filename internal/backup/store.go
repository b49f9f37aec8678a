// Package backup copies the item collection to a remote blob store under a
// fixed file name.
package backup

import (
	"context"
	"errors"
	"sync"
)

// FileName is the name of the backup blob.
const FileName = "bucket-list-backup.json"

var (
	// ErrUnauthorized means the remote rejected the credentials. Callers may
	// re-authenticate once and retry.
	ErrUnauthorized = errors.New("backup: unauthorized")

	// ErrNotFound means no backup exists yet.
	ErrNotFound = errors.New("backup: not found")

	// ErrNotConfigured is returned when no remote is set up.
	ErrNotConfigured = errors.New("backup: not configured")

	// ErrEncrypted is returned when a sealed backup is read without a key.
	ErrEncrypted = errors.New("backup: backup is encrypted and no key is configured")
)

// Store is an opaque blob store keyed by name.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// Reauthenticator refreshes the credentials a Store uses.
type Reauthenticator interface {
	Reauthenticate(ctx context.Context) error
}

// MemoryStore keeps blobs in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = append([]byte(nil), data...)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}
