package normalize

import (
	"time"

	mapping "sunspec-gateway/internal/mapping/domain"
)

// RawPoint is one point exactly as a datalogger reported it. Value stays
// untyped; dataloggers mix numbers, numeric strings and text in one payload.
type RawPoint struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Snapshot is one poll of one device: every raw point plus the vocabulary it
// was spoken in.
type Snapshot struct {
	DeviceID   string             `json:"device_id"`
	Vocabulary mapping.Vocabulary `json:"vocabulary"`
	Points     []RawPoint         `json:"points"`
	At         time.Time          `json:"at"`
}

// NormalizedPoint is one canonical measurement after vocabulary lookup and
// value transformation.
type NormalizedPoint struct {
	CanonicalName string `json:"canonical_name"`
	EntityName    string `json:"entity_name"`
	WireName      string `json:"wire_name"`

	Value interface{} `json:"value"`
	Unit  string      `json:"unit,omitempty"`

	// RawCode keeps the numeric state code next to its translated text, so
	// automations can match on the code while dashboards show the label.
	RawCode *int64 `json:"raw_code,omitempty"`

	Label          string `json:"label"`
	DisplayName    string `json:"display_name"`
	Category       string `json:"category"`
	DeviceClass    string `json:"device_class,omitempty"`
	StateClass     string `json:"state_class,omitempty"`
	EntityCategory string `json:"entity_category,omitempty"`
	Icon           string `json:"icon,omitempty"`

	VSN300Compatible bool `json:"vsn300_compatible"`
	VSN700Compatible bool `json:"vsn700_compatible"`

	Timestamp time.Time `json:"timestamp"`
}

// Result is the outcome of normalizing one snapshot.
type Result struct {
	DeviceID string            `json:"device_id"`
	Points   []NormalizedPoint `json:"points"`

	// Unknown lists wire names the mapping table does not cover. They are
	// reported, never silently swallowed.
	Unknown []string `json:"unknown,omitempty"`

	// Failed lists points whose value could not be transformed.
	Failed []string `json:"failed,omitempty"`
}
