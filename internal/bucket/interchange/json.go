package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
)

// ParseJSON reads a JSON array of items. Only the outer shape is checked:
// the document must be a non-empty array. Entries with wrongly typed fields
// are kept with whatever decoded cleanly; entries without an id get one.
func ParseJSON(data []byte) ([]*domain.Item, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raws) == 0 {
		return nil, ErrEmptyImport
	}

	items := make([]*domain.Item, 0, len(raws))
	for _, raw := range raws {
		if string(bytes.TrimSpace(raw)) == "null" {
			continue
		}
		var item domain.Item
		if err := json.Unmarshal(raw, &item); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
		if item.ID == "" {
			item.ID = domain.NewID()
		}
		if item.Images == nil {
			item.Images = []string{}
		}
		if item.Interests == nil {
			item.Interests = []string{}
		}
		items = append(items, &item)
	}

	if len(items) == 0 {
		return nil, ErrEmptyImport
	}
	return items, nil
}

// FormatJSON renders items as a pretty-printed JSON array.
func FormatJSON(items []*domain.Item) ([]byte, error) {
	if items == nil {
		items = []*domain.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return append(data, '\n'), nil
}

// Parse dispatches to ParseCSV or ParseJSON.
func Parse(format Format, data []byte, now func() time.Time) ([]*domain.Item, error) {
	switch format {
	case CSV:
		return ParseCSV(data, now())
	case JSON:
		return ParseJSON(data)
	default:
		return nil, ErrUnknownFormat
	}
}
