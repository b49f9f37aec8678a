// Package interchange converts bucket items to and from the user-facing file
// formats: CSV and pretty-printed JSON for round trips, PDF for printing.
package interchange

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyImport is returned when an import file yields no items.
	ErrEmptyImport = errors.New("import contains no items")
	// ErrMalformed is wrapped by every parse failure.
	ErrMalformed = errors.New("malformed import file")
	// ErrUnknownFormat is returned for unsupported format names.
	ErrUnknownFormat = errors.New("unknown file format")
)

// Format identifies a file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	PDF  Format = "pdf"
)

// ParseFormat parses a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, PDF:
		return f, nil
	}
	return "", ErrUnknownFormat
}

// DetectFormat guesses the import format from the file extension, falling
// back to sniffing the content: a leading '[' means JSON.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return JSON
	case ".csv":
		return CSV
	}
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return JSON
	}
	return CSV
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}
