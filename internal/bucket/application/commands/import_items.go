package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/interchange"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/eventbus"
)

// ErrInvalidImportMode is returned for unknown import modes.
var ErrInvalidImportMode = errors.New("invalid import mode")

// ImportMode controls how imported items combine with the stored ones.
type ImportMode string

const (
	// ImportReplace swaps the whole collection for the imported items.
	ImportReplace ImportMode = "replace"
	// ImportMerge replaces stored items with the same id and puts new ones
	// at the front in file order.
	ImportMerge ImportMode = "merge"
)

// ImportItemsCommand imports a CSV or JSON file. An empty Format is
// detected from the file name and content.
type ImportItemsCommand struct {
	Data     []byte
	Filename string
	Format   interchange.Format
	Mode     ImportMode
}

// ImportItemsResult contains the result of an import.
type ImportItemsResult struct {
	Format   interchange.Format
	Imported int
	Added    int
	Replaced int
	Total    int
}

// ImportItemsHandler handles the ImportItemsCommand.
type ImportItemsHandler struct {
	repo      domain.Repository
	publisher eventbus.EventPublisher
	now       Clock
}

// NewImportItemsHandler creates a new ImportItemsHandler.
func NewImportItemsHandler(repo domain.Repository, publisher eventbus.EventPublisher, now Clock) *ImportItemsHandler {
	return &ImportItemsHandler{repo: repo, publisher: publisher, now: clockOrNow(now)}
}

// Handle executes the ImportItemsCommand. The file is parsed completely
// before anything is written; on any parse error the stored items are left
// untouched.
func (h *ImportItemsHandler) Handle(ctx context.Context, cmd ImportItemsCommand) (*ImportItemsResult, error) {
	mode := cmd.Mode
	if mode == "" {
		mode = ImportReplace
	}
	if mode != ImportReplace && mode != ImportMerge {
		return nil, fmt.Errorf("%w: %q", ErrInvalidImportMode, cmd.Mode)
	}

	format := cmd.Format
	if format == "" {
		format = interchange.DetectFormat(cmd.Filename, cmd.Data)
	}
	imported, err := interchange.Parse(format, cmd.Data, h.now)
	if err != nil {
		return nil, err
	}

	result := &ImportItemsResult{Format: format, Imported: len(imported)}
	next := imported
	if mode == ImportMerge {
		existing, err := h.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		next, result.Added, result.Replaced = merge(existing, imported)
	} else {
		result.Added = len(imported)
	}

	if err := h.repo.ReplaceAll(ctx, next); err != nil {
		return nil, err
	}
	result.Total = len(next)

	publishChanged(ctx, h.publisher, domain.ItemsChanged{
		Reason: domain.ChangeImported,
		Total:  result.Total,
	})
	return result, nil
}

// merge overlays imported onto existing by id. Items whose id is new are
// placed before the existing ones, keeping file order.
func merge(existing, imported []*domain.Item) (merged []*domain.Item, added, replaced int) {
	incoming := make(map[string]*domain.Item, len(imported))
	for _, it := range imported {
		incoming[it.ID] = it
	}

	known := make(map[string]bool, len(existing))
	kept := make([]*domain.Item, 0, len(existing))
	for _, it := range existing {
		known[it.ID] = true
		if repl, ok := incoming[it.ID]; ok {
			kept = append(kept, repl)
			replaced++
			continue
		}
		kept = append(kept, it)
	}

	merged = make([]*domain.Item, 0, len(imported)+len(existing))
	seen := make(map[string]bool, len(imported))
	for _, it := range imported {
		if known[it.ID] || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		merged = append(merged, it)
		added++
	}
	return append(merged, kept...), added, replaced
}
