package application

import (
	"testing"
	"time"

	mapping "sunspec-gateway/internal/mapping/domain"
	normalize "sunspec-gateway/internal/normalize/domain"
)

func testMappingTable(t *testing.T) *mapping.Table {
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
			CanonicalName: "GlobalSt",
			EntityName:    "global_state",
			Models:        []mapping.ModelID{mapping.ModelVendor},
			VSN300Name:    "m64061_1_GlobalSt",
			VSN700Name:    "GlobalSt",
			Label:         "Global State",
			Description:   "Inverter global state machine",
			DisplayName:   "Global State",
			Category:      mapping.CategoryStatus,
		},
		{
			CanonicalName: "SysTime",
			EntityName:    "sys_time",
			Models:        []mapping.ModelID{mapping.ModelProprietary},
			VSN700Name:    "SysTime",
			Label:         "Sys Time",
			Description:   "Device system clock",
			DisplayName:   "System Time",
			Category:      mapping.CategorySystem,
			DeviceClass:   "timestamp",
		},
		{
			CanonicalName: "SN",
			EntityName:    "serial_number",
			Models:        []mapping.ModelID{mapping.ModelCommon},
			VSN700Name:    "C_SN",
			Label:         "Serial Number",
			Description:   "Device serial number",
			DisplayName:   "Serial Number",
			Category:      mapping.CategoryDeviceInfo,
		},
		{
			CanonicalName: "uptime",
			EntityName:    "system_uptime",
			VendorOnly:    true,
			VSN300Name:    "uptime",
			Label:         "System Uptime",
			Description:   "Datalogger uptime",
			DisplayName:   "System Uptime",
			Category:      mapping.CategorySystemMonitoring,
		},
	})
	if err != nil {
		t.Fatalf("test table: %v", err)
	}
	return table
}

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(testMappingTable(t), NewTransformer(DefaultTransformConfig()), nil)
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}
	return n
}

func TestNormalize_EndToEnd(t *testing.T) {
	n := newTestNormalizer(t)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	res, err := n.Normalize(normalize.Snapshot{
		DeviceID:   "inv-1",
		Vocabulary: mapping.VocabularyVSN700,
		At:         at,
		Points: []normalize.RawPoint{
			{Name: "Pgrid", Value: 8524.0},
			{Name: "GlobalSt", Value: 6.0},
			{Name: "C_SN", Value: "123456-3G82-1522"},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(res.Points) != 3 {
		t.Fatalf("expected 3 points, got %d (unknown=%v failed=%v)", len(res.Points), res.Unknown, res.Failed)
	}

	byName := map[string]normalize.NormalizedPoint{}
	for _, p := range res.Points {
		byName[p.CanonicalName] = p
	}

	power := byName["W"]
	if power.Value != 8524.0 || power.Unit != "W" || power.EntityName != "ac_power" {
		t.Fatalf("power point wrong: %+v", power)
	}
	if !power.VSN300Compatible || !power.VSN700Compatible {
		t.Fatalf("compatibility flags wrong: %+v", power)
	}
	if !power.Timestamp.Equal(at) {
		t.Fatalf("timestamp: %s", power.Timestamp)
	}

	state := byName["GlobalSt"]
	if state.Value != "Run" {
		t.Fatalf("state not translated: %+v", state)
	}
	if state.RawCode == nil || *state.RawCode != 6 {
		t.Fatalf("raw code not preserved: %+v", state.RawCode)
	}

	serial := byName["SN"]
	if serial.Value != "123456-3G82-1522" {
		t.Fatalf("text point must pass through: %+v", serial)
	}
}

func TestNormalize_UnknownStateCode(t *testing.T) {
	n := newTestNormalizer(t)
	res, err := n.Normalize(normalize.Snapshot{
		DeviceID:   "inv-1",
		Vocabulary: mapping.VocabularyVSN700,
		Points:     []normalize.RawPoint{{Name: "GlobalSt", Value: 250.0}},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	state := res.Points[0]
	if state.Value != "Unknown (250)" {
		t.Fatalf("got %v", state.Value)
	}
	if state.RawCode == nil || *state.RawCode != 250 {
		t.Fatalf("raw code: %+v", state.RawCode)
	}
}

func TestNormalize_DeviceClock(t *testing.T) {
	n := newTestNormalizer(t)
	res, err := n.Normalize(normalize.Snapshot{
		DeviceID:   "inv-1",
		Vocabulary: mapping.VocabularyVSN700,
		Points:     []normalize.RawPoint{{Name: "SysTime", Value: 86400.0}},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	clock := res.Points[0]
	if !clock.Timestamp.Equal(want) {
		t.Fatalf("timestamp %s, want %s", clock.Timestamp, want)
	}
	if clock.Value != want.Format(time.RFC3339) {
		t.Fatalf("value %v", clock.Value)
	}
}

func TestNormalize_UptimeFormatting(t *testing.T) {
	n := newTestNormalizer(t)
	res, err := n.Normalize(normalize.Snapshot{
		DeviceID:   "logger-1",
		Vocabulary: mapping.VocabularyVSN300,
		Points:     []normalize.RawPoint{{Name: "uptime", Value: 90061.0}},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Points[0].Value != "1d 1h 1m" {
		t.Fatalf("got %v", res.Points[0].Value)
	}
}

func TestNormalize_UnknownAndFailedPoints(t *testing.T) {
	n := newTestNormalizer(t)
	res, err := n.Normalize(normalize.Snapshot{
		DeviceID:   "inv-1",
		Vocabulary: mapping.VocabularyVSN700,
		Points: []normalize.RawPoint{
			{Name: "NotMapped", Value: 1.0},
			{Name: "Pgrid", Value: "garbage"},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(res.Points) != 0 {
		t.Fatalf("expected no points, got %v", res.Points)
	}
	if len(res.Unknown) != 1 || res.Unknown[0] != "NotMapped" {
		t.Fatalf("unknown: %v", res.Unknown)
	}
	if len(res.Failed) != 1 || res.Failed[0] != "Pgrid" {
		t.Fatalf("failed: %v", res.Failed)
	}
}

func TestNormalize_DuplicateCanonicalFirstWins(t *testing.T) {
	n := newTestNormalizer(t)
	res, err := n.Normalize(normalize.Snapshot{
		DeviceID:   "inv-1",
		Vocabulary: mapping.VocabularyVSN700,
		Points: []normalize.RawPoint{
			{Name: "Pgrid", Value: 100.0},
			{Name: "Pgrid", Value: 200.0},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(res.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(res.Points))
	}
	if res.Points[0].Value != 100.0 {
		t.Fatalf("first value must win, got %v", res.Points[0].Value)
	}
}

func TestNormalize_RejectsUnknownVocabulary(t *testing.T) {
	n := newTestNormalizer(t)
	if _, err := n.Normalize(normalize.Snapshot{
		DeviceID:   "inv-1",
		Vocabulary: "modbus",
		Points:     []normalize.RawPoint{{Name: "Pgrid", Value: 1.0}},
	}); err == nil {
		t.Fatal("expected error for unknown vocabulary")
	}
}
