package kv

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/database"
)

// SQLStore persists values in the kv_entries table of a SQLite or
// PostgreSQL database.
type SQLStore struct {
	conn   database.Connection
	logger *slog.Logger

	getQuery    string
	upsertQuery string
	deleteQuery string
}

// NewSQLStore creates a store on top of an open connection. The kv_entries
// table must already exist (see the migrations package).
func NewSQLStore(conn database.Connection, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	d := conn.Driver()
	return &SQLStore{
		conn:     conn,
		logger:   logger,
		getQuery: fmt.Sprintf(`SELECT value FROM kv_entries WHERE key = %s`, database.Placeholder(d, 1)),
		upsertQuery: fmt.Sprintf(`INSERT INTO kv_entries (key, value) VALUES (%s, %s)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			database.Placeholder(d, 1), database.Placeholder(d, 2)),
		deleteQuery: fmt.Sprintf(`DELETE FROM kv_entries WHERE key = %s`, database.Placeholder(d, 1)),
	}
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	var data []byte
	err := s.conn.QueryRow(ctx, s.getQuery, key).Scan(&data)
	if database.IsNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv: get %s: %w", key, err)
	}
	return true, decode(key, data, dest)
}

// Set implements Store.
func (s *SQLStore) Set(ctx context.Context, key string, value any) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}
	if _, err := s.conn.Exec(ctx, s.upsertQuery, key, string(data)); err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	s.logger.Debug("kv value stored", "key", key, "bytes", len(data))
	return nil
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.conn.Exec(ctx, s.deleteQuery, key); err != nil {
		return fmt.Errorf("kv: delete %s: %w", key, err)
	}
	return nil
}
