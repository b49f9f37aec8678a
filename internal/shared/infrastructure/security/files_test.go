package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := CleanPath("  ")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("rejects shell metacharacters", func(t *testing.T) {
		for _, c := range forbidden {
			_, err := CleanPath("/tmp/list" + string(c) + ".csv")
			assert.ErrorIs(t, err, ErrForbiddenChar, "char %q", c)
		}
	})

	t.Run("relative paths become absolute", func(t *testing.T) {
		got, err := CleanPath("export.csv")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})

	t.Run("cleans traversal", func(t *testing.T) {
		dir := t.TempDir()
		got, err := CleanPath(filepath.Join(dir, "a", "..", "list.json"))
		require.NoError(t, err)
		assert.NotContains(t, got, "..")
	})

	t.Run("resolves symlinks", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "target.json")
		require.NoError(t, os.WriteFile(target, []byte("[]"), 0o600))
		link := filepath.Join(dir, "link.json")
		require.NoError(t, os.Symlink(target, link))

		got, err := CleanPath(link)
		require.NoError(t, err)
		want, _ := filepath.EvalSymlinks(target)
		assert.Equal(t, want, got)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title\nParis\n"), 0o600))

	t.Run("reads within limit", func(t *testing.T) {
		data, err := ReadFile(path, 1024)
		require.NoError(t, err)
		assert.Equal(t, "Title\nParis\n", string(data))
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		_, err := ReadFile(path, 4)
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("rejects directories", func(t *testing.T) {
		_, err := ReadFile(dir, 1024)
		assert.ErrorIs(t, err, ErrNotRegular)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing.csv"), 1024)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(dir, "exports", "bucket-list.json")
		written, err := WriteFile(path, []byte("[]"))
		require.NoError(t, err)

		data, err := os.ReadFile(written)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))

		entries, err := os.ReadDir(filepath.Dir(written))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary file is cleaned up")
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		path := filepath.Join(dir, "list.csv")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
		_, err := WriteFile(path, []byte("new"))
		require.NoError(t, err)
		data, _ := os.ReadFile(path)
		assert.Equal(t, "new", string(data))
	})

	t.Run("refuses directories", func(t *testing.T) {
		_, err := WriteFile(dir, []byte("x"))
		assert.ErrorIs(t, err, ErrNotRegular)
	})
}
