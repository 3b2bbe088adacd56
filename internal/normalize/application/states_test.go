package application

import "testing"

func TestTranslateState_KnownCodes(t *testing.T) {
	cases := []struct {
		canonical string
		code      int64
		want      string
	}{
		{"GlobalSt", 6, "Run"},
		{"InverterSt", 2, "Run"},
		{"DcSt1", 2, "MPPT"},
		{"DcSt2", 2, "MPPT"},
		{"AlarmSt", 0, "No Alarm"},
		{"AlarmState", 19, "Over Temperature"},
	}
	for _, tc := range cases {
		got, ok := TranslateState(tc.canonical, tc.code)
		if !ok {
			t.Fatalf("%s has no state table", tc.canonical)
		}
		if got != tc.want {
			t.Fatalf("%s code %d: got %q, want %q", tc.canonical, tc.code, got, tc.want)
		}
	}
}

func TestTranslateState_UnknownCodePreserved(t *testing.T) {
	got, ok := TranslateState("GlobalSt", 250)
	if !ok {
		t.Fatal("GlobalSt has no state table")
	}
	if got != "Unknown (250)" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateState_NonStatePoint(t *testing.T) {
	if _, ok := TranslateState("W", 6); ok {
		t.Fatal("numeric measurement must not have a state table")
	}
	if _, ok := StateTableFor("Pgrid"); ok {
		t.Fatal("wire names must not resolve to state tables")
	}
}
