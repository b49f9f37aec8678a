package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a point in time in epoch milliseconds. Zero means "not set".
type Timestamp int64

// TimestampOf converts a time to a Timestamp. The zero time maps to 0.
func TimestampOf(t time.Time) Timestamp {
	if t.IsZero() {
		return 0
	}
	return Timestamp(t.UnixMilli())
}

// IsZero reports whether the timestamp is unset.
func (ts Timestamp) IsZero() bool { return ts == 0 }

// Time returns the timestamp as a time.Time in UTC, or the zero time if unset.
func (ts Timestamp) Time() time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ts)).UTC()
}

// In returns the timestamp converted to loc. A nil loc means time.Local.
func (ts Timestamp) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return ts.Time().In(loc)
}

// Day is the length of the proximity suppression window and the unit for
// time-to-completion statistics.
const Day = 24 * time.Hour

// UnmarshalJSON accepts numbers (integer or float epoch ms), numeric strings,
// date strings and null. Anything else leaves the timestamp unset, which keeps
// permissive imports from failing on a single odd field.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*ts = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*ts = 0
			return nil
		}
		*ts = ParseTimestamp(s)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*ts = 0
		return nil
	}
	*ts = Timestamp(int64(f))
	return nil
}

// dateLayouts are tried in order by ParseTimestamp.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseTimestamp parses epoch milliseconds or a date string. Dates without a
// zone are read in UTC. It returns 0 when the value cannot be parsed.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Timestamp(n)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimestampOf(t)
		}
	}
	return 0
}
