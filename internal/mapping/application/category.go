package application

import (
	"strings"

	mapping "sunspec-gateway/internal/mapping/domain"
)

// Classify determines the category of a resolved entry from its corrected
// label and description, falling back to model flags. Keyword rules run in
// priority order; the first match wins.
func Classify(label, description string, models []mapping.ModelID, vsn300Name, vsn700Name string) mapping.Category {
	labelLower := strings.ToLower(label)
	descLower := strings.ToLower(description)
	has := func(id mapping.ModelID) bool {
		for _, m := range models {
			if m == id {
				return true
			}
		}
		return false
	}

	// Energy counters before battery: "battery charge energy" is a counter
	// for the energy dashboard, not a battery health point.
	if strings.Contains(labelLower, "energy") || strings.Contains(descLower, "energy") {
		if !strings.Contains(labelLower, "battery") && !strings.Contains(descLower, "battery") {
			return mapping.CategoryEnergyCounter
		}
	}

	if strings.Contains(labelLower, "house") || strings.Contains(descLower, "house") ||
		strings.HasPrefix(vsn700Name, "House") {
		return mapping.CategoryHouseMeter
	}

	for _, kw := range []string{"flash", "ram", "uptime", "load", "storage"} {
		if strings.Contains(labelLower, kw) {
			return mapping.CategorySystemMonitoring
		}
	}

	for _, kw := range []string{"wlan", "wifi", "ip address", "essid", "network"} {
		if strings.Contains(labelLower, kw) {
			return mapping.CategoryNetwork
		}
	}

	for _, kw := range []string{"battery", "cell", "state of charge", "state of health", "charge", "discharge"} {
		if strings.Contains(labelLower, kw) && !strings.Contains(labelLower, "energy") {
			return mapping.CategoryBattery
		}
	}

	for _, kw := range []string{"status", "state", "alarm", "fault", "mode", "control"} {
		if strings.Contains(labelLower, kw) {
			return mapping.CategoryStatus
		}
	}

	if has(mapping.ModelCommon) {
		return mapping.CategoryDeviceInfo
	}
	if strings.HasPrefix(labelLower, "dc") || strings.Contains(labelLower, "mppt") || strings.Contains(labelLower, "string") {
		return mapping.CategoryMPPT
	}
	if has(mapping.ModelInverter) || has(mapping.ModelVendor) {
		return mapping.CategoryInverter
	}
	if has(mapping.ModelMPPT) {
		return mapping.CategoryMPPT
	}
	if has(mapping.ModelMeter) {
		return mapping.CategoryMeter
	}
	if has(mapping.ModelStorage) {
		return mapping.CategoryBattery
	}
	if has(mapping.ModelProprietary) {
		return mapping.CategorySystem
	}
	if has(mapping.ModelVSN300Only) || has(mapping.ModelVSN700Only) {
		return mapping.CategoryDatalogger
	}
	return mapping.CategoryUnknown
}
