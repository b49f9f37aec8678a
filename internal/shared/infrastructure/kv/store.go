// Package kv provides the key-value persistence collaborator. Every value is
// stored as a JSON document under a short string key.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known keys.
const (
	KeyItems           = "items"
	KeyFamilyMembers   = "familyMembers"
	KeyCategories      = "categories"
	KeyInterests       = "interests"
	KeySettings        = "settings"
	KeyNotifications   = "notifications"
	KeyProximityAlerts = "proximityAlerts"
)

// Keys lists every key that belongs to a user's data snapshot.
var Keys = []string{
	KeyItems,
	KeyFamilyMembers,
	KeyCategories,
	KeyInterests,
	KeySettings,
	KeyNotifications,
	KeyProximityAlerts,
}

var (
	// ErrEmptyKey is returned when an operation is called without a key.
	ErrEmptyKey = errors.New("kv: key is required")
	// ErrValueTooLarge is returned when an encoded value exceeds MaxValueSize.
	ErrValueTooLarge = errors.New("kv: value too large")
)

// MaxValueSize bounds a single encoded value.
const MaxValueSize = 16 * 1024 * 1024

// Store persists JSON values by key.
type Store interface {
	// Get decodes the value stored under key into dest. It reports false
	// when the key is absent, leaving dest untouched.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set encodes value and stores it under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

func encode(key string, value any) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("kv: encode %s: %w", key, err)
	}
	if len(data) > MaxValueSize {
		return nil, ErrValueTooLarge
	}
	return data, nil
}

func decode(key string, data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return nil
}
