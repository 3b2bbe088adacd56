package application

import (
	"regexp"
	"strings"

	mapping "sunspec-gateway/internal/mapping/domain"
)

// vsn300NamePattern matches SunSpec-prefixed VSN300 wire names such as
// m103_1_W (model 103, instance 1, point W).
var vsn300NamePattern = regexp.MustCompile(`^m(\d+)_(\d+)_(.+)$`)

// ParseVSN300Name splits a VSN300 wire name into its model and the bare
// SunSpec point name. Names without the prefix are returned unchanged with
// an empty model.
func ParseVSN300Name(name string) (mapping.ModelID, string) {
	m := vsn300NamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", name
	}
	return mapping.ModelID("M" + m[1]), m[3]
}

var stateCodeLabels = map[string]string{
	"Alm1":       "Alarm 1",
	"Alm2":       "Alarm 2",
	"Alm3":       "Alarm 3",
	"AlarmState": "Alarm State",
	"AlarmSt":    "Alarm State",
	"GlobalSt":   "Global State",
	"DcSt1":      "DC-DC State 1",
	"DcSt2":      "DC-DC State 2",
	"InverterSt": "Inverter State",
	"FaultStatus": "Fault Status",
	"BatteryMode": "Battery Mode",
	"BatteryStatus": "Battery Status",
	"IsolResist": "Isolation Resistance",
}

var systemPointLabels = map[string]string{
	"flash_free": "Flash Memory Free",
	"free_ram":   "Free RAM",
	"fw_ver":     "Firmware Version",
	"hw_ver":     "Hardware Version",
	"store_size": "Storage Size",
	"sys_load":   "System Load",
	"uptime":     "System Uptime",
	"sn":         "Serial Number",
	"SysTime":    "Sys Time",
	"MemFree":    "Free RAM",
	"FlashFree":  "Flash Memory Free",
	"SysLoad":    "System Load",
}

var periodSuffixLabels = map[string]string{
	"runtime": "Lifetime",
	"7D":      "7 Day",
	"30D":     "30 Day",
	"1Y":      "1 Year",
}

var abbreviationLabels = map[string]string{
	"Soc":  "State of Charge",
	"Soh":  "State of Health",
	"Tmp":  "Temperature",
	"Vbat": "Battery Voltage",
	"Ibat": "Battery Current",
	"Pbat": "Battery Power",
}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// GenerateLabel derives a human-readable label from a wire point name. Used
// when neither standards source nor vendor feed provides one.
func GenerateLabel(pointName string) string {
	if model, bare := ParseVSN300Name(pointName); model != "" {
		return GenerateLabel(bare)
	}
	if label, ok := stateCodeLabels[pointName]; ok {
		return label
	}
	if label, ok := systemPointLabels[pointName]; ok {
		return label
	}
	if base, suffix := reverseCutKey(pointName); suffix != "" {
		if period, ok := periodSuffixLabels[suffix]; ok {
			return GenerateLabel(base) + " " + period
		}
	}
	if full, ok := abbreviationLabels[pointName]; ok {
		return full
	}
	for abbr, full := range abbreviationLabels {
		if strings.HasPrefix(pointName, abbr) && len(pointName) > len(abbr) {
			return full + pointName[len(abbr):]
		}
	}

	spaced := camelBoundary.ReplaceAllString(pointName, "$1 $2")
	spaced = strings.ReplaceAll(spaced, "_", " ")
	words := strings.Fields(spaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// reverseCutKey prepares a name for suffix splitting on the last underscore.
func reverseCutKey(name string) (string, string) {
	i := strings.LastIndex(name, "_")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

var entityNameStrip = regexp.MustCompile(`[^a-z0-9_]+`)
var entityNameSqueeze = regexp.MustCompile(`_+`)

// EntityName converts a label into a stable snake_case entity name.
func EntityName(label string) string {
	name := strings.ToLower(label)
	name = strings.ReplaceAll(name, " ", "_")
	name = entityNameStrip.ReplaceAllString(name, "")
	name = entityNameSqueeze.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
