package application

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"sort"
	"strings"

	mapping "sunspec-gateway/internal/mapping/domain"
)

// Pass is one named, pure correction step. Passes only ever see one entry at
// a time; cross-entry state lives in the pipeline's match bookkeeping.
type Pass struct {
	Name string
	run  func(e *mapping.CanonicalMappingEntry, hit func(ruleKey string))
}

// passOrder is the mandatory pass sequence. Label corrections MUST precede
// device-class fixes: the device-class override table is keyed by corrected
// label text, so swapping them makes every override a silent no-op.
const passOrder = "display-name,label,device-class,strip-prefix,time-period,unit"

// orderedPasses returns the pipeline passes in their mandatory order.
func orderedPasses() []Pass {
	return []Pass{
		{Name: "display-name", run: displayNamePass},
		{Name: "label", run: labelPass},
		{Name: "device-class", run: deviceClassPass},
		{Name: "strip-prefix", run: stripPrefixPass},
		{Name: "time-period", run: timePeriodPass},
		{Name: "unit", run: unitPass},
	}
}

// Pipeline runs the correction passes over resolved entries and tracks which
// correction rules ever matched, so rules orphaned by renames or ordering
// mistakes are reported instead of failing silently.
type Pipeline struct {
	passes  []Pass
	matched map[string]map[string]bool
}

// NewPipeline builds the pipeline and asserts the pass list has not been
// reordered.
func NewPipeline() (*Pipeline, error) {
	p := &Pipeline{passes: orderedPasses()}
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name
	}
	if strings.Join(names, ",") != passOrder {
		return nil, errors.New("correction pipeline: pass order altered")
	}
	p.matched = make(map[string]map[string]bool, len(p.passes))
	for _, pass := range p.passes {
		p.matched[pass.Name] = make(map[string]bool)
	}
	return p, nil
}

// Checksum returns a digest of the pass names in order, recorded in the
// resolution report so artifact diffs expose pipeline changes.
func (p *Pipeline) Checksum() string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name
	}
	sum := sha256.Sum256([]byte(strings.Join(names, ",")))
	return hex.EncodeToString(sum[:])
}

// Apply runs every pass, in order, over one entry.
func (p *Pipeline) Apply(e *mapping.CanonicalMappingEntry) {
	for _, pass := range p.passes {
		name := pass.Name
		pass.run(e, func(ruleKey string) {
			p.matched[name][ruleKey] = true
		})
	}
}

// Unmatched returns, per pass, the correction rule keys that never matched
// any record in the run. A non-empty result is the primary symptom of a
// reordered pipeline or a stale rule table.
func (p *Pipeline) Unmatched() map[string][]string {
	out := make(map[string][]string)
	for pass, keys := range map[string][]string{
		"display-name": mapKeys(displayNameCorrections),
		"label":        mapKeys(labelCorrections),
		"device-class": mapKeys(deviceClassFixes),
		"unit":         mapKeys(unitOverrides),
	} {
		var missing []string
		for _, key := range keys {
			if !p.matched[pass][key] {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		if len(missing) > 0 {
			out[pass] = missing
		}
	}
	return out
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// --- pass 1: display-name corrections -------------------------------------

// displayNameCorrections replace verbose generated display names with the
// short forms operators actually want on a dashboard.
var displayNameCorrections = map[string]string{
	"Serial number (datalogger)":                "Serial Number",
	"WiFi local IP address":                     "IP Address",
	"WiFi network name (SSID)":                  "WiFi SSID",
	"Current alarm status of the inverter":      "Alarm Status",
	"Booster stage temperature":                 "Booster Temperature",
	"DC bulk capacitor voltage":                 "DC Capacitor Voltage",
	"DC bulk mid-point voltage":                 "DC Mid-point Voltage",
	"DC current measurement for string 1":       "DC Current #1",
	"DC current measurement for string 2":       "DC Current #2",
	"DC voltage measurement for string 1":       "DC Voltage #1",
	"DC voltage measurement for string 2":       "DC Voltage #2",
	"Phase A to neutral voltage measurement":    "Phase Voltage AN",
	"Device Modbus address":                     "Modbus Address",
	"Device model identifier from common model": "Model",
	"Device options and features from common model": "Options",
	"Device serial number from common model":        "Serial Number",
	"Firmware version from device common model":     "Firmware Version",
	"Manufacturer name from device common model":    "Manufacturer",
}

func displayNamePass(e *mapping.CanonicalMappingEntry, hit func(string)) {
	if fixed, ok := displayNameCorrections[e.DisplayName]; ok {
		hit(e.DisplayName)
		e.DisplayName = fixed
	}
}

// --- pass 2: label corrections ---------------------------------------------

// labelCorrections fix casing and expand abbreviations the generated labels
// get wrong. Later passes key off these corrected labels.
var labelCorrections = map[string]string{
	"Isol Resist":   "Isolation Resistance",
	"Wlan 0 Essid":  "WiFi SSID",
	"Wlan 0 Ip":     "WiFi IP Address",
	"Fw Ver":        "Firmware Version",
	"Hw Ver":        "Hardware Version",
	"Pf":            "Power Factor",
	"Appl Ver":      "Application Version",
	"Ser Num":       "Serial Number",
	"Hdd 1 Size":    "Disk Size",
	"Hdd 1 Used":    "Disk Used",
	"Device Da":     "Device Address",
	"Vr":            "Version",
}

func labelPass(e *mapping.CanonicalMappingEntry, hit func(string)) {
	if fixed, ok := labelCorrections[e.Label]; ok {
		hit(e.Label)
		e.Label = fixed
	}
}

// --- pass 3: device-class / entity-category / icon fixes --------------------

type deviceClassFix struct {
	DeviceClass    *string
	Unit           *string
	EntityCategory string
	Icon           string
}

func strPtr(s string) *string { return &s }

// deviceClassFixes are keyed by CORRECTED label text (pass 2 output), which
// is why this pass must run after the label pass.
var deviceClassFixes = map[string]deviceClassFix{
	// Modbus address inherited device_class=current from a unit column
	// misread; it is a plain identifier.
	"Device Address": {DeviceClass: strPtr(""), Unit: strPtr(""), EntityCategory: mapping.EntityCategoryDiagnostic},
	// Firmware version strings are not voltages.
	"Version":          {DeviceClass: strPtr(""), Unit: strPtr(""), EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:information-box-outline"},
	"Firmware Version": {DeviceClass: strPtr(""), Unit: strPtr(""), EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:information-box-outline"},
	"Hardware Version": {EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:information-box-outline"},
	"Serial Number":    {EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:identifier"},
	"Sys Time":         {DeviceClass: strPtr("timestamp"), Unit: strPtr(""), EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:clock-outline"},
	"System Load":      {EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:gauge"},
	"System Uptime":    {EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:timer-outline"},
	"Free RAM":         {EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:memory"},
	"Flash Memory Free": {EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:memory"},
	"WiFi SSID":         {EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:wifi"},
	"WiFi IP Address":   {EntityCategory: mapping.EntityCategoryDiagnostic, Icon: "mdi:ip-network-outline"},
}

func deviceClassPass(e *mapping.CanonicalMappingEntry, hit func(string)) {
	fix, ok := deviceClassFixes[e.Label]
	if !ok {
		return
	}
	hit(e.Label)
	if fix.DeviceClass != nil {
		e.DeviceClass = *fix.DeviceClass
	}
	if fix.Unit != nil {
		e.Unit = *fix.Unit
	}
	if fix.EntityCategory != "" {
		e.EntityCategory = fix.EntityCategory
	}
	if fix.Icon != "" {
		e.Icon = fix.Icon
	}
}

// --- pass 4: redundant-prefix stripping -------------------------------------

var duplicateWord = regexp.MustCompile(`(?i)\b(energy|counter)\b(\s+\b(?:energy|counter)\b)+`)

// stripPrefixPass collapses repeated "energy"/"counter" qualifiers that
// accumulate when a counter label is joined with its counter description.
func stripPrefixPass(e *mapping.CanonicalMappingEntry, _ func(string)) {
	e.Label = collapseQualifiers(e.Label)
	e.DisplayName = collapseQualifiers(e.DisplayName)
}

func collapseQualifiers(s string) string {
	return strings.TrimSpace(duplicateWord.ReplaceAllString(s, "$1"))
}

// --- pass 5: time-period phrase standardization ------------------------------

type periodRule struct {
	pattern *regexp.Regexp
	suffix  string
}

// periodRules map every phrasing of an accumulation window onto one
// canonical suffix, so "Export Energy 7 Day", "export energy last 7 days"
// and "E0 7D" all land on "... - Week".
var periodRules = []periodRule{
	{regexp.MustCompile(`(?i)\s*[-–]?\s*\(?(last\s+7\s+days|7\s*days?|7\s*d|last\s+week)\)?$`), " - Week"},
	{regexp.MustCompile(`(?i)\s*[-–]?\s*\(?(last\s+30\s+days|30\s*days?|30\s*d|last\s+month)\)?$`), " - Month"},
	{regexp.MustCompile(`(?i)\s*[-–]?\s*\(?(last\s+year|1\s*year|1\s*y)\)?$`), " - Year"},
	{regexp.MustCompile(`(?i)\s*[-–]?\s*\(?(runtime|lifetime|since\s+commissioning|lifetime\s+total)\)?$`), " - Lifetime"},
}

func timePeriodPass(e *mapping.CanonicalMappingEntry, _ func(string)) {
	e.Label = canonicalPeriod(e.Label)
	e.DisplayName = canonicalPeriod(e.DisplayName)
}

func canonicalPeriod(s string) string {
	for _, rule := range periodRules {
		if rule.pattern.MatchString(s) {
			return strings.TrimSpace(rule.pattern.ReplaceAllString(s, rule.suffix))
		}
	}
	return s
}

// --- pass 6: unit overrides ---------------------------------------------------

// unitOverrides pin the unit per canonical name. Running last is what makes
// them authoritative: nothing downstream can clobber them.
var unitOverrides = map[string]string{
	"IsolResist": "MΩ",
	"PF":         "%",
	"SoC":        "%",
	"SoH":        "%",
	"SysLoad":    "%",
	"MemFree":    "MB",
	"FlashFree":  "MB",
	"free_ram":   "MB",
	"flash_free": "MB",
	"store_size": "MB",
	"TotWhExp":   "kWh",
	"Tmp":        "°C",
	"TmpCab":     "°C",
	"TmpOt":      "°C",
}

func unitPass(e *mapping.CanonicalMappingEntry, hit func(string)) {
	if unit, ok := unitOverrides[e.CanonicalName]; ok {
		hit(e.CanonicalName)
		e.Unit = unit
	}
}
