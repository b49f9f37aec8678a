package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/bucket/interchange"
)

// ExportFileBase is the file name stem used for exports.
const ExportFileBase = "bucket-list"

// ExportItemsCommand renders the stored items in a file format.
type ExportItemsCommand struct {
	Format interchange.Format
}

// ExportItemsResult contains the rendered file.
type ExportItemsResult struct {
	Data     []byte
	Filename string
	Count    int
}

// ExportItemsHandler handles the ExportItemsCommand.
type ExportItemsHandler struct {
	repo domain.Repository
	now  Clock
}

// NewExportItemsHandler creates a new ExportItemsHandler.
func NewExportItemsHandler(repo domain.Repository, now Clock) *ExportItemsHandler {
	return &ExportItemsHandler{repo: repo, now: clockOrNow(now)}
}

// Handle executes the ExportItemsCommand.
func (h *ExportItemsHandler) Handle(ctx context.Context, cmd ExportItemsCommand) (*ExportItemsResult, error) {
	items, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch cmd.Format {
	case interchange.CSV:
		data = interchange.FormatCSV(items)
	case interchange.JSON:
		data, err = interchange.FormatJSON(items)
	case interchange.PDF:
		data, err = interchange.FormatPDF(items, h.now())
	default:
		return nil, fmt.Errorf("%w: %q", interchange.ErrUnknownFormat, cmd.Format)
	}
	if err != nil {
		return nil, err
	}

	return &ExportItemsResult{
		Data:     data,
		Filename: ExportFileBase + "." + string(cmd.Format),
		Count:    len(items),
	}, nil
}
