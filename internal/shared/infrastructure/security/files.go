// Package security guards the files the CLI reads and writes on the user's
// behalf (imports, exports, backups pulled to disk).
package security

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxImportBytes caps files read for import.
const MaxImportBytes = 16 << 20

var (
	ErrEmptyPath     = errors.New("file path cannot be empty")
	ErrForbiddenChar = errors.New("file path contains a forbidden character")
	ErrNotRegular    = errors.New("not a regular file")
	ErrFileTooLarge  = errors.New("file too large")
)

// forbidden are shell metacharacters and control characters never expected
// in a user-supplied path.
const forbidden = ";&|$`<>\n\r\x00"

// CleanPath validates a path and returns it absolute and cleaned, with
// symlinks resolved when the target exists.
func CleanPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	if i := strings.IndexAny(path, forbidden); i >= 0 {
		return "", fmt.Errorf("%w %q: %s", ErrForbiddenChar, path[i], path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	switch {
	case err == nil:
		return resolved, nil
	case errors.Is(err, os.ErrNotExist):
		return abs, nil
	default:
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
}

// ReadFile reads a regular file of at most limit bytes.
func ReadFile(path string, limit int64) ([]byte, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is validated above
	f, err := os.Open(clean)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, path, info.Size(), limit)
	}

	r := io.Reader(f)
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, path)
	}
	return data, nil
}

// WriteFile writes data through a temporary file in the same directory and
// renames it into place, so readers never see a partial file.
func WriteFile(path string, data []byte) (string, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotRegular, path)
	}

	dir := filepath.Dir(clean)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(clean)+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), clean); err != nil {
		return "", err
	}
	return clean, nil
}
