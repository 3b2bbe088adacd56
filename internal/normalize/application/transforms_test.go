package application

import (
	"errors"
	"testing"
	"time"

	mapping "sunspec-gateway/internal/mapping/domain"
)

func TestNumeric_VocabularyScaling(t *testing.T) {
	trans := NewTransformer(DefaultTransformConfig())

	// VSN700 reports leak current in amps, the table carries mA.
	leak := mapping.CanonicalMappingEntry{CanonicalName: "IleakInv", Unit: "mA"}
	got, _, err := trans.Numeric(leak, mapping.VocabularyVSN700, 0.005)
	if err != nil {
		t.Fatalf("vsn700: %v", err)
	}
	if got != 5 {
		t.Fatalf("amp scaling: got %v, want 5", got)
	}

	// The VSN300 side reports microamps under the M64061 wire name.
	leak300 := mapping.CanonicalMappingEntry{CanonicalName: "ILeakDcAc", Unit: "mA"}
	got, _, err = trans.Numeric(leak300, mapping.VocabularyVSN300, 5000.0)
	if err != nil {
		t.Fatalf("vsn300: %v", err)
	}
	if got != 5 {
		t.Fatalf("microamp scaling: got %v, want 5", got)
	}

	// A VSN700 leak reading must never see the VSN300 factor.
	got, _, err = trans.Numeric(leak300, mapping.VocabularyVSN700, 5000.0)
	if err != nil {
		t.Fatalf("cross vocabulary: %v", err)
	}
	if got != 5000 {
		t.Fatalf("factor leaked across vocabularies: got %v", got)
	}
}

func TestNumeric_BytesToMB(t *testing.T) {
	trans := NewTransformer(DefaultTransformConfig())
	cases := []struct {
		canonical string
		in        float64
		want      float64
	}{
		{"MemFree", 52428800, 50},
		{"FlashFree", 1048576, 1},
		{"free_ram", 524288, 0.5},
	}
	for _, tc := range cases {
		entry := mapping.CanonicalMappingEntry{CanonicalName: tc.canonical, Unit: "MB"}
		got, _, err := trans.Numeric(entry, mapping.VocabularyVSN300, tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.canonical, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.canonical, got, tc.want)
		}
	}
}

func TestNumeric_ImplausibleTemperature(t *testing.T) {
	trans := NewTransformer(DefaultTransformConfig())
	tmp := mapping.CanonicalMappingEntry{CanonicalName: "Tmp", Unit: "°C"}

	got, _, err := trans.Numeric(tmp, mapping.VocabularyVSN700, 244.0)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got != 24.4 {
		t.Fatalf("got %v, want 24.4", got)
	}

	got, _, err = trans.Numeric(tmp, mapping.VocabularyVSN700, 38.5)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got != 38.5 {
		t.Fatalf("plausible reading must pass unchanged, got %v", got)
	}

	// TmpCab is the canonical name VSN700's Temp1 resolves to; the heuristic
	// must cover it.
	cab := mapping.CanonicalMappingEntry{CanonicalName: "TmpCab", Unit: "°C"}
	got, _, err = trans.Numeric(cab, mapping.VocabularyVSN700, 385.0)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got != 38.5 {
		t.Fatalf("cabinet temperature: got %v, want 38.5", got)
	}

	// Threshold is configurable; a raised threshold stops the correction.
	loose := NewTransformer(TransformConfig{TempImplausibleC: 300})
	got, _, err = loose.Numeric(tmp, mapping.VocabularyVSN700, 244.0)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got != 244.0 {
		t.Fatalf("raised threshold: got %v, want 244", got)
	}
}

func TestNumeric_EnergyAlwaysKWh(t *testing.T) {
	trans := NewTransformer(DefaultTransformConfig())
	cases := []struct {
		unit     string
		in       float64
		want     float64
		wantUnit string
	}{
		{"Wh", 12500, 12.5, "kWh"},
		{"MWh", 1.2, 1200, "kWh"},
		{"kWh", 42, 42, ""},
	}
	for _, tc := range cases {
		entry := mapping.CanonicalMappingEntry{CanonicalName: "TotWhExp", Unit: tc.unit, DeviceClass: "energy"}
		got, unit, err := trans.Numeric(entry, mapping.VocabularyVSN300, tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.unit, err)
		}
		if got != tc.want || unit != tc.wantUnit {
			t.Fatalf("%s: got %v %q, want %v %q", tc.unit, got, unit, tc.want, tc.wantUnit)
		}
	}
}

func TestNumeric_RejectsNonNumeric(t *testing.T) {
	trans := NewTransformer(DefaultTransformConfig())
	entry := mapping.CanonicalMappingEntry{CanonicalName: "W", Unit: "W"}

	_, _, err := trans.Numeric(entry, mapping.VocabularyVSN700, "not-a-number")
	var transformErr *TransformError
	if !errors.As(err, &transformErr) {
		t.Fatalf("expected TransformError, got %v", err)
	}

	if got, _, err := trans.Numeric(entry, mapping.VocabularyVSN700, "1500.5"); err != nil || got != 1500.5 {
		t.Fatalf("numeric strings must parse: %v %v", got, err)
	}
}

func TestDeviceTime_EpochOffset(t *testing.T) {
	// 0 on the device clock is 2000-01-01T00:00:00Z.
	got, err := DeviceTime(0.0)
	if err != nil {
		t.Fatalf("device time: %v", err)
	}
	want := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}

	got, err = DeviceTime(86400.0)
	if err != nil {
		t.Fatalf("device time: %v", err)
	}
	if !got.Equal(want.Add(24 * time.Hour)) {
		t.Fatalf("got %s", got)
	}
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{90061, "1d 1h 1m"},
		{7260, "2h 1m"},
		{180, "3m"},
		{-5, "0m"},
	}
	for _, tc := range cases {
		if got := FormatUptime(tc.in); got != tc.want {
			t.Fatalf("FormatUptime(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
