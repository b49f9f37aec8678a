// Package settings manages the persisted application settings and the
// user-managed vocabularies (family members, categories, interests).
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/bucketlist/internal/geo"
)

var (
	ErrUnknownKey    = errors.New("unknown settings key")
	ErrInvalidValue  = errors.New("invalid settings value")
	ErrUnknownVocab  = errors.New("unknown vocabulary")
	ErrEmptyTerm     = errors.New("term cannot be empty")
	ErrDuplicateTerm = errors.New("term already exists")
	ErrTermNotFound  = errors.New("term not found")
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// TravelMode is used when requesting directions to an item.
type TravelMode string

const (
	TravelDriving   TravelMode = "driving"
	TravelWalking   TravelMode = "walking"
	TravelBicycling TravelMode = "bicycling"
	TravelTransit   TravelMode = "transit"
)

// DefaultProximityRange is the default alert radius in meters.
const DefaultProximityRange = 2000.0

// AppSettings is the process-wide settings struct.
type AppSettings struct {
	Theme                Theme      `json:"theme" yaml:"theme"`
	ProximityRange       float64    `json:"proximityRange" yaml:"proximityRange"`
	TravelMode           TravelMode `json:"travelMode" yaml:"travelMode"`
	DistanceUnit         geo.Unit   `json:"distanceUnit" yaml:"distanceUnit"`
	NotificationsEnabled bool       `json:"notificationsEnabled" yaml:"notificationsEnabled"`
	VoiceAlertsEnabled   bool       `json:"voiceAlertsEnabled" yaml:"voiceAlertsEnabled"`
	AutoBackupEnabled    bool       `json:"autoBackupEnabled" yaml:"autoBackupEnabled"`
}

// Defaults returns the settings used before the user changes anything.
func Defaults() AppSettings {
	return AppSettings{
		Theme:                ThemeSystem,
		ProximityRange:       DefaultProximityRange,
		TravelMode:           TravelDriving,
		DistanceUnit:         geo.UnitKilometers,
		NotificationsEnabled: true,
		VoiceAlertsEnabled:   true,
		AutoBackupEnabled:    false,
	}
}

// Validate checks every enumerated field and the range.
func (s AppSettings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("%w: theme %q", ErrInvalidValue, s.Theme)
	}
	switch s.TravelMode {
	case TravelDriving, TravelWalking, TravelBicycling, TravelTransit:
	default:
		return fmt.Errorf("%w: travelMode %q", ErrInvalidValue, s.TravelMode)
	}
	if !s.DistanceUnit.IsValid() {
		return fmt.Errorf("%w: distanceUnit %q", ErrInvalidValue, s.DistanceUnit)
	}
	if s.ProximityRange <= 0 {
		return fmt.Errorf("%w: proximityRange must be positive", ErrInvalidValue)
	}
	return nil
}

// Setting keys accepted by Set.
const (
	KeyTheme                = "theme"
	KeyProximityRange       = "proximityRange"
	KeyTravelMode           = "travelMode"
	KeyDistanceUnit         = "distanceUnit"
	KeyNotificationsEnabled = "notificationsEnabled"
	KeyVoiceAlertsEnabled   = "voiceAlertsEnabled"
	KeyAutoBackupEnabled    = "autoBackupEnabled"
)

// Keys lists the settable keys in display order.
var Keys = []string{
	KeyTheme,
	KeyProximityRange,
	KeyTravelMode,
	KeyDistanceUnit,
	KeyNotificationsEnabled,
	KeyVoiceAlertsEnabled,
	KeyAutoBackupEnabled,
}

// apply parses value and assigns it to the field named by key. Keys match
// case-insensitively.
func (s *AppSettings) apply(key, value string) error {
	value = strings.TrimSpace(value)
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		return b, nil
	}

	var err error
	switch {
	case strings.EqualFold(key, KeyTheme):
		s.Theme = Theme(strings.ToLower(value))
	case strings.EqualFold(key, KeyProximityRange):
		s.ProximityRange, err = strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: proximityRange must be a number of meters", ErrInvalidValue)
		}
	case strings.EqualFold(key, KeyTravelMode):
		s.TravelMode = TravelMode(strings.ToLower(value))
	case strings.EqualFold(key, KeyDistanceUnit):
		s.DistanceUnit = geo.Unit(strings.ToLower(value))
	case strings.EqualFold(key, KeyNotificationsEnabled):
		s.NotificationsEnabled, err = parseBool()
	case strings.EqualFold(key, KeyVoiceAlertsEnabled):
		s.VoiceAlertsEnabled, err = parseBool()
	case strings.EqualFold(key, KeyAutoBackupEnabled):
		s.AutoBackupEnabled, err = parseBool()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return err
}
