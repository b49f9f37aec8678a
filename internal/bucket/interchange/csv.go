package interchange

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

// CSVHeader is the fixed positional column layout.
var CSVHeader = []string{
	"ID", "Title", "Description", "Location", "Latitude", "Longitude",
	"Category", "Status", "CompletedDate", "Owner", "Interests",
}

const (
	colID = iota
	colTitle
	colDescription
	colLocation
	colLatitude
	colLongitude
	colCategory
	colStatus
	colCompletedDate
	colOwner
	colInterests
)

const (
	statusCompleted = "Completed"
	statusPending   = "Pending"
	interestSep     = ";"
	csvDateLayout   = "2006-01-02"
)

// ParseCSV converts CSV data into items. The first record is a header and
// is skipped. Quoted fields may contain separators, doubled quotes and
// newlines. Fields are trimmed. Missing ids are generated and createdAt is
// synthesized as now minus the row index so file order survives a
// newest-first sort.
func ParseCSV(data []byte, now time.Time) ([]*domain.Item, error) {
	lines, err := splitCSVLines(string(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(lines) < 2 {
		return nil, ErrEmptyImport
	}

	created := domain.TimestampOf(now)
	var items []*domain.Item
	for _, l := range lines[1:] {
		record := splitCSVFields(l.text)
		if blank(record) {
			continue
		}
		item, err := itemFromRecord(record, created-domain.Timestamp(len(items)))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, l.line, err)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, ErrEmptyImport
	}
	return items, nil
}

// csvLine is one logical record and the physical line it starts on.
type csvLine struct {
	text string
	line int
}

// splitCSVLines splits data at line breaks outside quotes. Quote state is
// tracked per character, so a doubled quote leaves it unchanged.
func splitCSVLines(data string) ([]csvLine, error) {
	var (
		lines     []csvLine
		start     int
		line      = 1
		startLine = 1
		quoted    bool
	)
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '"':
			quoted = !quoted
		case '\n':
			if !quoted {
				lines = append(lines, csvLine{text: strings.TrimSuffix(data[start:i], "\r"), line: startLine})
				start = i + 1
				startLine = line + 1
			}
			line++
		}
	}
	if quoted {
		return nil, fmt.Errorf("line %d: unterminated quoted field", startLine)
	}
	if start < len(data) {
		lines = append(lines, csvLine{text: strings.TrimSuffix(data[start:], "\r"), line: startLine})
	}
	return lines, nil
}

// splitCSVFields tokenizes one logical record. A comma separates fields only
// outside quotes and "" inside quotes is a literal quote. Whitespace around a
// quoted value is dropped with the trim.
func splitCSVFields(s string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && quoted && i+1 < len(s) && s[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}

func itemFromRecord(record []string, createdAt domain.Timestamp) (*domain.Item, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	title := field(colTitle)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	item := &domain.Item{
		ID:           field(colID),
		Title:        title,
		Description:  field(colDescription),
		LocationName: field(colLocation),
		Category:     field(colCategory),
		Owner:        field(colOwner),
		Images:       []string{},
		Interests:    domain.CleanTags(strings.Split(field(colInterests), interestSep)),
		CreatedAt:    createdAt,
		Type:         domain.TypeGoal,
	}
	if item.ID == "" {
		item.ID = domain.NewID()
	}

	if coords, ok := parseCoordinates(field(colLatitude), field(colLongitude)); ok {
		item.Coordinates = coords
		item.Type = domain.TypeDestination
	}

	if strings.EqualFold(field(colStatus), "completed") {
		item.Completed = true
		item.CompletedAt = domain.ParseTimestamp(field(colCompletedDate))
	}
	return item, nil
}

// parseCoordinates accepts a pair only if both values parse and at least one
// is non-zero. Stray characters (degree signs, spaces) are stripped first.
func parseCoordinates(latRaw, lngRaw string) (*geo.Coordinates, bool) {
	lat, errLat := strconv.ParseFloat(cleanNumber(latRaw), 64)
	lng, errLng := strconv.ParseFloat(cleanNumber(lngRaw), 64)
	if errLat != nil || errLng != nil {
		return nil, false
	}
	if lat == 0 && lng == 0 {
		return nil, false
	}
	coords := &geo.Coordinates{Latitude: lat, Longitude: lng}
	if !coords.Valid() {
		return nil, false
	}
	return coords, true
}

func cleanNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// FormatCSV renders items in the CSVHeader layout. Text fields are always
// quoted with inner quotes doubled; coordinates are bare numbers.
func FormatCSV(items []*domain.Item) []byte {
	var b bytes.Buffer
	b.WriteString(strings.Join(CSVHeader, ","))
	b.WriteString("\n")

	for _, it := range items {
		if it == nil {
			continue
		}
		lat, lng := "", ""
		if it.Coordinates.Valid() {
			lat = strconv.FormatFloat(it.Coordinates.Latitude, 'f', -1, 64)
			lng = strconv.FormatFloat(it.Coordinates.Longitude, 'f', -1, 64)
		}
		status := statusPending
		if it.Completed {
			status = statusCompleted
		}
		completed := ""
		if it.Completed && !it.CompletedAt.IsZero() {
			completed = it.CompletedAt.Time().Format(csvDateLayout)
		}

		fields := []string{
			quote(it.ID),
			quote(it.Title),
			quote(it.Description),
			quote(it.LocationName),
			lat,
			lng,
			quote(it.Category),
			quote(status),
			quote(completed),
			quote(it.Owner),
			quote(strings.Join(it.Interests, interestSep)),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}
	return b.Bytes()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
