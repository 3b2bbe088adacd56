package mapping

import (
	"errors"
	"fmt"
	"sort"
)

// ModelID identifies a SunSpec model or a vendor-specific grouping a
// canonical point belongs to.
type ModelID string

const (
	ModelCommon      ModelID = "M1"
	ModelInverter    ModelID = "M103"
	ModelMPPT        ModelID = "M160"
	ModelMeter       ModelID = "M203"
	ModelStorage     ModelID = "M802"
	ModelVendor      ModelID = "M64061"
	ModelVSN300Only  ModelID = "VSN300-only"
	ModelVSN700Only  ModelID = "VSN700-only"
	ModelProprietary ModelID = "ABB-proprietary"
)

// KnownModels lists every model flag in canonical order.
var KnownModels = []ModelID{
	ModelCommon,
	ModelInverter,
	ModelMPPT,
	ModelMeter,
	ModelStorage,
	ModelVendor,
	ModelVSN300Only,
	ModelVSN700Only,
	ModelProprietary,
}

// Category groups canonical points by the physical subsystem they describe.
type Category string

const (
	CategoryInverter         Category = "Inverter"
	CategoryMPPT             Category = "MPPT"
	CategoryBattery          Category = "Battery"
	CategoryMeter            Category = "Meter"
	CategoryEnergyCounter    Category = "Energy Counter"
	CategoryHouseMeter       Category = "House Meter"
	CategorySystemMonitoring Category = "System Monitoring"
	CategoryDatalogger       Category = "Datalogger"
	CategoryDeviceInfo       Category = "Device Info"
	CategoryNetwork          Category = "Network"
	CategoryStatus           Category = "Status"
	CategorySystem           Category = "System"
	CategoryUnknown          Category = "Unknown"
)

// EntityCategoryDiagnostic marks entries that belong on a diagnostics panel
// rather than the primary dashboard.
const EntityCategoryDiagnostic = "diagnostic"

// CanonicalMappingEntry is one row of the canonical mapping table: a single
// deduplicated telemetry measurement with all metadata needed to present it,
// independent of which vendor vocabulary reported it.
type CanonicalMappingEntry struct {
	CanonicalName string    `json:"canonical_name"`
	EntityName    string    `json:"entity_name"`
	Models        []ModelID `json:"models"`

	// Per-vendor wire names. Empty means the vocabulary does not carry the
	// point. VSN300 uses SunSpec-prefixed names (m103_1_W), VSN700 uses
	// proprietary names (Pgrid).
	VSN300Name string `json:"vsn300_name,omitempty"`
	VSN700Name string `json:"vsn700_name,omitempty"`

	Label       string   `json:"label"`
	Description string   `json:"description"`
	DisplayName string   `json:"display_name"`
	Category    Category `json:"category"`

	Unit           string `json:"unit,omitempty"`
	DeviceClass    string `json:"device_class,omitempty"`
	StateClass     string `json:"state_class,omitempty"`
	EntityCategory string `json:"entity_category,omitempty"`
	Icon           string `json:"icon,omitempty"`

	InLiveData        bool `json:"in_livedata"`
	InFeeds           bool `json:"in_feeds"`
	AvailableInModbus bool `json:"available_in_modbus"`

	// VendorOnly flags entries with no standards model: points a datalogger
	// exposes that have no SunSpec equivalent.
	VendorOnly bool `json:"vendor_only,omitempty"`

	// DataSource records which description tier won during resolution.
	DataSource string `json:"data_source,omitempty"`
}

// Validate checks entry invariants.
func (e CanonicalMappingEntry) Validate() error {
	if e.CanonicalName == "" {
		return errors.New("mapping entry: empty canonical name")
	}
	if len(e.Models) == 0 && !e.VendorOnly {
		return fmt.Errorf("mapping entry %s: empty model set on a non-vendor-only entry", e.CanonicalName)
	}
	if e.Category == "" {
		return fmt.Errorf("mapping entry %s: empty category", e.CanonicalName)
	}
	return nil
}

// HasModel reports whether the entry carries the given model flag.
func (e CanonicalMappingEntry) HasModel(id ModelID) bool {
	for _, m := range e.Models {
		if m == id {
			return true
		}
	}
	return false
}

// AddModel adds a model flag, keeping the set deduplicated and in canonical
// order so resolution output is deterministic.
func (e *CanonicalMappingEntry) AddModel(id ModelID) {
	if id == "" || e.HasModel(id) {
		return
	}
	e.Models = append(e.Models, id)
	sort.Slice(e.Models, func(i, j int) bool {
		return modelRank(e.Models[i]) < modelRank(e.Models[j])
	})
}

func modelRank(id ModelID) int {
	for i, m := range KnownModels {
		if m == id {
			return i
		}
	}
	return len(KnownModels)
}

// CompatibleWithVSN300 reports whether a VSN300 datalogger exposes the point.
func (e CanonicalMappingEntry) CompatibleWithVSN300() bool {
	return e.VSN300Name != ""
}

// CompatibleWithVSN700 reports whether a VSN700 datalogger exposes the point.
func (e CanonicalMappingEntry) CompatibleWithVSN700() bool {
	return e.VSN700Name != ""
}
