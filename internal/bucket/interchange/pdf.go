package interchange

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
)

// FormatPDF renders a printable A4 checklist of the items. It is an export
// format only.
func FormatPDF(items []*domain.Item, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Bucket List", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	done := 0
	for _, it := range items {
		if it != nil && it.Completed {
			done++
		}
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "My Bucket List")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d of %d done - printed %s", done, len(items), now.Format("January 2, 2006")))
	pdf.Ln(10)

	for _, it := range items {
		if it == nil {
			continue
		}
		box := "[  ]"
		if it.Completed {
			box = "[x]"
		}

		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(12, 7, box, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(it.Title), "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		var meta string
		if it.LocationName != "" {
			meta = it.LocationName
		}
		if it.Category != "" {
			if meta != "" {
				meta += " | "
			}
			meta += it.Category
		}
		if it.Completed && !it.CompletedAt.IsZero() {
			if meta != "" {
				meta += " | "
			}
			meta += "done " + it.CompletedAt.Time().Format(csvDateLayout)
		}
		if meta != "" {
			pdf.SetX(pdf.GetX() + 12)
			pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")
		}
		if it.Description != "" {
			pdf.SetX(pdf.GetX() + 12)
			pdf.MultiCell(0, 5, tr(it.Description), "", "L", false)
		}
		for _, stop := range it.Itinerary {
			mark := "-"
			if stop.Completed {
				mark = "x"
			}
			pdf.SetX(pdf.GetX() + 18)
			pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s %s", mark, stop.Name)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
