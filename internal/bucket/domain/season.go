package domain

import "time"

// Season is a meteorological season bucket derived from a month.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
	SeasonWinter Season = "Winter"
)

// Seasons lists the buckets in calendar order starting with spring.
var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// SeasonOf maps a month to its season: Mar-May spring, Jun-Aug summer,
// Sep-Nov fall, Dec-Feb winter.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// ParseSeason parses a season name case-insensitively. "Autumn" is accepted
// for fall.
func ParseSeason(s string) (Season, bool) {
	switch normalize(s) {
	case "spring":
		return SeasonSpring, true
	case "summer":
		return SeasonSummer, true
	case "fall", "autumn":
		return SeasonFall, true
	case "winter":
		return SeasonWinter, true
	default:
		return "", false
	}
}
