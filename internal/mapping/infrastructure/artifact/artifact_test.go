package artifact

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mapping "sunspec-gateway/internal/mapping/domain"
)

func testTable(t *testing.T) *mapping.Table {
	t.Helper()
	table, err := mapping.NewTable([]mapping.CanonicalMappingEntry{
		{
			CanonicalName: "W",
			EntityName:    "ac_power",
			Models:        []mapping.ModelID{mapping.ModelInverter},
			VSN300Name:    "m103_1_W",
			VSN700Name:    "Pgrid",
			Label:         "Watts",
			Description:   "AC Power output",
			DisplayName:   "AC Power",
			Category:      mapping.CategoryInverter,
			Unit:          "W",
			DeviceClass:   "power",
			StateClass:    "measurement",
		},
		{
			CanonicalName: "SoC",
			EntityName:    "state_of_charge",
			Models:        []mapping.ModelID{mapping.ModelStorage},
			VSN700Name:    "Soc",
			Label:         "State of Charge",
			Description:   "Battery state of charge",
			DisplayName:   "State of Charge",
			Category:      mapping.CategoryBattery,
			Unit:          "%",
		},
	})
	if err != nil {
		t.Fatalf("test table: %v", err)
	}
	return table
}

func TestEncode_Deterministic(t *testing.T) {
	table := testTable(t)
	first, err := Encode(table)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := Encode(table)
	if err != nil {
		t.Fatalf("encode again: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("identical tables must encode byte-identically")
	}
	if strings.Contains(string(first), "generated_at") {
		t.Fatal("artifact must not carry timestamps")
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	table := testTable(t)
	path := filepath.Join(t.TempDir(), "mapping", "point_mappings.json")
	if err := Write(path, table); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != table.Len() {
		t.Fatalf("entry count %d, want %d", loaded.Len(), table.Len())
	}
	entry, ok := loaded.ByVendorName(mapping.VocabularyVSN700, "Pgrid")
	if !ok || entry.CanonicalName != "W" {
		t.Fatalf("lookup after load: %+v ok=%v", entry, ok)
	}
}

func TestLoad_RejectsTamperedContent(t *testing.T) {
	table := testTable(t)
	path := filepath.Join(t.TempDir(), "point_mappings.json")
	if err := Write(path, table); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tampered := bytes.Replace(data, []byte(`"Pgrid"`), []byte(`"Qgrid"`), 1)
	if err := os.WriteFile(path, tampered, 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("tampered artifact must fail the hash check")
	}
}

func TestLoad_RejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "point_mappings.json")
	if err := os.WriteFile(path, []byte(`{"schema_version": 99, "content_hash": "", "entries": []}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("schema mismatch must fail")
	}
}
