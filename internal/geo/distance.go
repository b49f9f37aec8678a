// Package geo provides great-circle distance math and distance formatting.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// metersToMiles converts meters to statute miles.
const metersToMiles = 0.000621371

// feetPerMile is used to render short imperial distances.
const feetPerMile = 5280.0

// Unit is the display unit for distances.
type Unit string

const (
	UnitKilometers Unit = "km"
	UnitMiles      Unit = "mi"
)

// IsValid checks if the unit is known.
func (u Unit) IsValid() bool {
	return u == UnitKilometers || u == UnitMiles
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are finite numbers.
func (c *Coordinates) Valid() bool {
	if c == nil {
		return false
	}
	return isFinite(c.Latitude) && isFinite(c.Longitude)
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Latitude, c.Longitude)
}

// DistanceMeters returns the haversine distance between a and b in meters.
// It returns 0 when either point is missing or not numeric, so callers can
// skip incomplete items without special-casing them.
func DistanceMeters(a, b *Coordinates) float64 {
	if !a.Valid() || !b.Valid() {
		return 0
	}

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	d := EarthRadiusMeters * c
	if !isFinite(d) {
		return 0
	}
	return d
}

// FormatDistance renders a distance for display.
//
//	km: "850m", "12.3km"
//	mi: "420ft", "3.1mi"
func FormatDistance(meters float64, unit Unit) string {
	if unit == UnitMiles {
		miles := meters * metersToMiles
		if miles < 0.1 {
			return fmt.Sprintf("%dft", int(math.Round(miles*feetPerMile)))
		}
		return fmt.Sprintf("%.1fmi", miles)
	}
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// SpeakDistance renders a distance with full unit words for text-to-speech.
func SpeakDistance(meters float64, unit Unit) string {
	if unit == UnitMiles {
		miles := meters * metersToMiles
		if miles < 0.1 {
			return fmt.Sprintf("%d feet", int(math.Round(miles*feetPerMile)))
		}
		return fmt.Sprintf("%.1f miles", miles)
	}
	if meters < 1000 {
		return fmt.Sprintf("%d meters", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f kilometers", meters/1000)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
