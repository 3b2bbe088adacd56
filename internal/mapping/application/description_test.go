package application

import (
	"testing"

	mapping "sunspec-gateway/internal/mapping/domain"
	"sunspec-gateway/internal/mapping/infrastructure/source"
)

func TestResolveDescription_StandardsWins(t *testing.T) {
	in := descriptionInput{
		CanonicalName: "W",
		VendorName:    "Pgrid",
		Label:         "Watts",
		Category:      mapping.CategoryInverter,
		Models:        []mapping.ModelID{mapping.ModelInverter},
		Standards:     "AC Power output",
		Feed:          &source.FeedMeta{Title: "Output power of the inverter", Origin: "vsn700"},
	}
	text, dataSource := ResolveDescription(in, Heuristics{MinFeedTitleWords: 2})
	if text != "AC Power output" || dataSource != SourceStandards {
		t.Fatalf("got %q from %q", text, dataSource)
	}
}

func TestResolveDescription_FeedTitleWhenStandardsThin(t *testing.T) {
	in := descriptionInput{
		CanonicalName: "E0",
		VendorName:    "E0",
		Label:         "E0",
		Category:      mapping.CategoryEnergyCounter,
		Models:        []mapping.ModelID{mapping.ModelVSN300Only},
		Standards:     "N/A",
		Feed:          &source.FeedMeta{Title: "Total exported energy", Origin: "vsn300"},
	}
	text, dataSource := ResolveDescription(in, Heuristics{MinFeedTitleWords: 2})
	if text != "Total exported energy" {
		t.Fatalf("got %q", text)
	}
	if dataSource != SourceFeedTitle+":vsn300" {
		t.Fatalf("data source %q", dataSource)
	}
}

func TestResolveDescription_RejectsNameEchoTitles(t *testing.T) {
	in := descriptionInput{
		CanonicalName: "Mn",
		VendorName:    "C_Mn",
		Label:         "Manufacturer",
		Category:      mapping.CategoryDeviceInfo,
		Models:        []mapping.ModelID{mapping.ModelCommon},
		Feed:          &source.FeedMeta{Title: "C_Mn", Origin: "vsn700"},
	}
	text, dataSource := ResolveDescription(in, Heuristics{MinFeedTitleWords: 2})
	if dataSource != SourceSynthesized {
		t.Fatalf("expected synthesized tier, got %q (%q)", dataSource, text)
	}
	if text != "Manufacturer name from device common model" {
		t.Fatalf("enhancement text not used: %q", text)
	}
}

func TestResolveDescription_CommonModelBoilerplateRejected(t *testing.T) {
	in := descriptionInput{
		CanonicalName: "SN",
		VendorName:    "C_SN",
		Label:         "Serial Number",
		Category:      mapping.CategoryDeviceInfo,
		Models:        []mapping.ModelID{mapping.ModelCommon},
		Standards:     "Serial number as read from the common model",
	}
	text, dataSource := ResolveDescription(in, Heuristics{MinFeedTitleWords: 2})
	if dataSource != SourceSynthesized {
		t.Fatalf("expected synthesized tier, got %q", dataSource)
	}
	if text != "Device serial number from common model" {
		t.Fatalf("got %q", text)
	}
}

func TestResolveDescription_SynthesizedFromLabelAndCategory(t *testing.T) {
	in := descriptionInput{
		CanonicalName: "Hz2",
		VendorName:    "Fgrid2",
		Label:         "Grid Frequency 2",
		Category:      mapping.CategoryInverter,
		Models:        []mapping.ModelID{mapping.ModelInverter},
	}
	text, dataSource := ResolveDescription(in, Heuristics{MinFeedTitleWords: 2})
	if dataSource != SourceSynthesized {
		t.Fatalf("expected synthesized tier, got %q", dataSource)
	}
	if text != "Grid Frequency 2 (Inverter, model M103)" {
		t.Fatalf("got %q", text)
	}
}

func TestResolveDescription_LabelFallback(t *testing.T) {
	in := descriptionInput{
		CanonicalName: "odd_point",
		Label:         "Odd Point",
		Category:      mapping.CategoryUnknown,
	}
	text, dataSource := ResolveDescription(in, Heuristics{MinFeedTitleWords: 2})
	if text != "Odd Point" || dataSource != SourceLabel {
		t.Fatalf("got %q from %q", text, dataSource)
	}
}

func TestResolveDescription_WordCountFloorConfigurable(t *testing.T) {
	in := descriptionInput{
		CanonicalName: "E1",
		VendorName:    "E1",
		Label:         "E1 Counter",
		Category:      mapping.CategoryEnergyCounter,
		Models:        []mapping.ModelID{mapping.ModelVSN300Only},
		Feed:          &source.FeedMeta{Title: "Exported energy", Origin: "vsn300"},
	}
	if text, _ := ResolveDescription(in, Heuristics{MinFeedTitleWords: 2}); text != "Exported energy" {
		t.Fatalf("two-word title should pass the default floor, got %q", text)
	}
	if _, dataSource := ResolveDescription(in, Heuristics{MinFeedTitleWords: 3}); dataSource == SourceFeedTitle+":vsn300" {
		t.Fatal("raised floor should reject the two-word title")
	}
}
