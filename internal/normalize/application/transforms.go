package application

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	mapping "sunspec-gateway/internal/mapping/domain"
)

// auroraEpochOffset converts the device clock to Unix time. Aurora-family
// firmware counts seconds from 2000-01-01 UTC, not 1970.
const auroraEpochOffset int64 = 946684800

// TransformConfig defines tunable transform heuristics.
type TransformConfig struct {
	// TempImplausibleC is the threshold above which a temperature reading is
	// assumed to be in tenths of a degree. Field firmware disagrees on the
	// scale and 70 C ambient is already thermal-shutdown territory.
	TempImplausibleC float64
}

// DefaultTransformConfig returns the production defaults.
func DefaultTransformConfig() TransformConfig {
	return TransformConfig{TempImplausibleC: 70}
}

// TransformError reports a point whose raw value could not be converted.
// The point is dropped from the result, never passed through unconverted.
type TransformError struct {
	Canonical string
	Value     interface{}
	Reason    string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %s (value %v)", e.Canonical, e.Reason, e.Value)
}

type scaleKey struct {
	canonical  string
	vocabulary mapping.Vocabulary
}

// scaleFactors corrects per-vocabulary unit mismatches: the same canonical
// point is reported in different magnitudes by the two firmware families.
// Targets are the canonical table units (leak currents in mA).
var scaleFactors = map[scaleKey]float64{
	// VSN700 reports leak currents in whole amps.
	{"IleakInv", mapping.VocabularyVSN700}: 1000,
	{"IleakDC", mapping.VocabularyVSN700}:  1000,
	// VSN300 reports them in microamps, under the M64061 wire names.
	{"ILeakDcAc", mapping.VocabularyVSN300}: 0.001,
	{"ILeakDcDc", mapping.VocabularyVSN300}: 0.001,
	// VSN700 isolation resistance arrives in kiloohm, table unit is MOhm.
	{"IsolResist", mapping.VocabularyVSN700}: 0.001,
}

// bytePoints are datalogger memory and storage counters reported in raw
// bytes; the table unit is MB.
var bytePoints = map[string]struct{}{
	"MemFree": {}, "FlashFree": {},
	"free_ram": {}, "flash_free": {}, "store_size": {},
}

// temperaturePoints are the canonical points the implausibility heuristic
// applies to.
var temperaturePoints = map[string]struct{}{
	"Tmp": {}, "TmpCab": {}, "TmpOt": {}, "TmpSnk": {}, "TmpTrns": {},
}

// Transformer converts raw wire values into canonical values.
type Transformer struct {
	cfg TransformConfig
}

// NewTransformer creates a transformer. A zero threshold falls back to the
// default.
func NewTransformer(cfg TransformConfig) *Transformer {
	if cfg.TempImplausibleC <= 0 {
		cfg.TempImplausibleC = DefaultTransformConfig().TempImplausibleC
	}
	return &Transformer{cfg: cfg}
}

// Numeric converts a raw numeric value for one canonical point: vocabulary
// scaling, temperature plausibility, energy unit normalization. The returned
// unit replaces the table unit when non-empty.
func (t *Transformer) Numeric(entry mapping.CanonicalMappingEntry, vocab mapping.Vocabulary, raw interface{}) (float64, string, error) {
	v, ok := toFloat(raw)
	if !ok {
		return 0, "", &TransformError{Canonical: entry.CanonicalName, Value: raw, Reason: "not numeric"}
	}

	if factor, ok := scaleFactors[scaleKey{entry.CanonicalName, vocab}]; ok {
		v *= factor
	}

	if _, isBytes := bytePoints[entry.CanonicalName]; isBytes {
		v /= 1048576
	}

	if _, isTemp := temperaturePoints[entry.CanonicalName]; isTemp && v > t.cfg.TempImplausibleC {
		v /= 10
	}

	if entry.DeviceClass == "energy" {
		switch entry.Unit {
		case "Wh":
			return v / 1000, "kWh", nil
		case "MWh":
			return v * 1000, "kWh", nil
		}
	}

	return v, "", nil
}

// DeviceTime converts an Aurora device clock reading to UTC.
func DeviceTime(raw interface{}) (time.Time, error) {
	v, ok := toFloat(raw)
	if !ok {
		return time.Time{}, &TransformError{Canonical: "SysTime", Value: raw, Reason: "not numeric"}
	}
	return time.Unix(int64(v)+auroraEpochOffset, 0).UTC(), nil
}

// FormatUptime renders an uptime counter in seconds as a compact duration.
func FormatUptime(seconds float64) string {
	total := int64(math.Max(seconds, 0))
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// toFloat accepts the value shapes datalogger JSON actually produces:
// numbers, integer types and numeric strings.
func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
