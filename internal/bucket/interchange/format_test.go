package interchange

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, JSON, DetectFormat("backup.JSON", nil))
	assert.Equal(t, CSV, DetectFormat("list.csv", []byte("[")))
	assert.Equal(t, JSON, DetectFormat("-", []byte("\ufeff  [ {} ]")))
	assert.Equal(t, CSV, DetectFormat("-", []byte("ID,Title")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, PDF, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParse(t *testing.T) {
	now := func() time.Time { return testNow }

	items, err := Parse(CSV, []byte(header+"a,Rome,,,,,,,,,\n"), now)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = Parse(PDF, nil, now)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatPDF(t *testing.T) {
	paris, err := domain.NewItem("Paris – Café de Flore", domain.TypeDestination, testNow)
	require.NoError(t, err)
	paris.LocationName = "Paris"
	paris.Description = "Coffee on the terrace"
	require.NoError(t, paris.Complete(testNow.Add(-time.Hour), testNow))
	require.NoError(t, paris.AddStop(domain.ItineraryStop{Name: "Louvre"}))

	goal, err := domain.NewItem("Learn Italian", domain.TypeGoal, testNow)
	require.NoError(t, err)

	data, err := FormatPDF([]*domain.Item{paris, goal, nil}, testNow)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
