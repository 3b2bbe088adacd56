package application

import (
	"testing"

	mapping "sunspec-gateway/internal/mapping/domain"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline()
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestPipeline_LabelBeforeDeviceClass(t *testing.T) {
	p := newTestPipeline(t)
	e := mapping.CanonicalMappingEntry{
		CanonicalName: "DA",
		Label:         "Device Da",
		Unit:          "A",
		DeviceClass:   "current",
		Category:      mapping.CategoryDeviceInfo,
	}
	p.Apply(&e)

	if e.Label != "Device Address" {
		t.Fatalf("label not corrected: %q", e.Label)
	}
	if e.DeviceClass != "" || e.Unit != "" {
		t.Fatalf("device class fix not applied: class=%q unit=%q", e.DeviceClass, e.Unit)
	}
	if e.EntityCategory != mapping.EntityCategoryDiagnostic {
		t.Fatalf("entity category not set: %q", e.EntityCategory)
	}
}

func TestPipeline_SwappedPassesBreakDeviceClassFixes(t *testing.T) {
	// The device-class table is keyed by corrected label text. Running it
	// before the label pass must leave the fix unapplied.
	passes := orderedPasses()
	passes[1], passes[2] = passes[2], passes[1]
	swapped := &Pipeline{passes: passes, matched: map[string]map[string]bool{}}
	for _, pass := range passes {
		swapped.matched[pass.Name] = map[string]bool{}
	}

	e := mapping.CanonicalMappingEntry{
		CanonicalName: "DA",
		Label:         "Device Da",
		DeviceClass:   "current",
		Category:      mapping.CategoryDeviceInfo,
	}
	swapped.Apply(&e)

	if e.DeviceClass != "current" {
		t.Fatalf("swapped pipeline should miss the fix, got device class %q", e.DeviceClass)
	}
	if e.Label != "Device Address" {
		t.Fatalf("label pass should still run: %q", e.Label)
	}
}

func TestNewPipeline_RejectsReorderedPasses(t *testing.T) {
	p := newTestPipeline(t)
	if p.Checksum() == "" {
		t.Fatal("empty checksum")
	}
	other := newTestPipeline(t)
	if p.Checksum() != other.Checksum() {
		t.Fatal("checksum must be stable across pipelines")
	}
}

func TestPipeline_TimePeriodStandardization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Export Energy last 7 days", "Export Energy - Week"},
		{"Export Energy 7D", "Export Energy - Week"},
		{"Import Energy 30 Days", "Import Energy - Month"},
		{"Generated Energy 1 Year", "Generated Energy - Year"},
		{"Generated Energy Lifetime", "Generated Energy - Lifetime"},
		{"Grid Frequency", "Grid Frequency"},
	}
	p := newTestPipeline(t)
	for _, tc := range cases {
		e := mapping.CanonicalMappingEntry{
			CanonicalName: "E0",
			Label:         tc.in,
			Category:      mapping.CategoryEnergyCounter,
		}
		p.Apply(&e)
		if e.Label != tc.want {
			t.Fatalf("period pass: %q became %q, want %q", tc.in, e.Label, tc.want)
		}
	}
}

func TestPipeline_CollapsesRepeatedQualifiers(t *testing.T) {
	p := newTestPipeline(t)
	e := mapping.CanonicalMappingEntry{
		CanonicalName: "E1",
		Label:         "Export Energy Energy 7D",
		Category:      mapping.CategoryEnergyCounter,
	}
	p.Apply(&e)
	if e.Label != "Export Energy - Week" {
		t.Fatalf("qualifier collapse failed: %q", e.Label)
	}
}

func TestPipeline_UnitOverrideWinsLast(t *testing.T) {
	p := newTestPipeline(t)
	e := mapping.CanonicalMappingEntry{
		CanonicalName: "IsolResist",
		Label:         "Isol Resist",
		Unit:          "kOhm",
		Category:      mapping.CategoryStatus,
	}
	p.Apply(&e)
	if e.Label != "Isolation Resistance" {
		t.Fatalf("label not corrected: %q", e.Label)
	}
	if e.Unit != "MΩ" {
		t.Fatalf("unit override not applied: %q", e.Unit)
	}
}

func TestPipeline_UnmatchedTracksStaleRules(t *testing.T) {
	p := newTestPipeline(t)
	e := mapping.CanonicalMappingEntry{
		CanonicalName: "PF",
		Label:         "Pf",
		Category:      mapping.CategoryInverter,
	}
	p.Apply(&e)

	unmatched := p.Unmatched()
	for _, key := range unmatched["label"] {
		if key == "Pf" {
			t.Fatal("matched rule reported as unmatched")
		}
	}
	for _, key := range unmatched["unit"] {
		if key == "PF" {
			t.Fatal("matched unit override reported as unmatched")
		}
	}
	if len(unmatched["label"]) == 0 {
		t.Fatal("expected unmatched label rules for a single-entry run")
	}
}
