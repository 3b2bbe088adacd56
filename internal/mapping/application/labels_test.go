package application

import (
	"testing"

	mapping "sunspec-gateway/internal/mapping/domain"
)

func TestParseVSN300Name(t *testing.T) {
	cases := []struct {
		in        string
		wantModel mapping.ModelID
		wantBare  string
	}{
		{"m103_1_W", mapping.ModelInverter, "W"},
		{"m160_1_DCV_1", mapping.ModelMPPT, "DCV_1"},
		{"m1_1_SN", mapping.ModelCommon, "SN"},
		{"Pgrid", "", "Pgrid"},
		{"flash_free", "", "flash_free"},
	}
	for _, tc := range cases {
		model, bare := ParseVSN300Name(tc.in)
		if model != tc.wantModel || bare != tc.wantBare {
			t.Fatalf("ParseVSN300Name(%q) = %q, %q; want %q, %q", tc.in, model, bare, tc.wantModel, tc.wantBare)
		}
	}
}

func TestGenerateLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"m103_1_GlobalSt", "Global State"},
		{"GlobalSt", "Global State"},
		{"DcSt1", "DC-DC State 1"},
		{"flash_free", "Flash Memory Free"},
		{"SysTime", "Sys Time"},
		{"Soc", "State of Charge"},
		{"Etotal_7D", "Etotal 7 Day"},
		{"Etotal_runtime", "Etotal Lifetime"},
		{"HousePgrid", "House Pgrid"},
		{"IsolResist", "Isolation Resistance"},
	}
	for _, tc := range cases {
		if got := GenerateLabel(tc.in); got != tc.want {
			t.Fatalf("GenerateLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEntityName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"DC Voltage #1", "dc_voltage_1"},
		{"State of Charge", "state_of_charge"},
		{"Export Energy - Week", "export_energy_week"},
		{"WiFi SSID", "wifi_ssid"},
	}
	for _, tc := range cases {
		if got := EntityName(tc.in); got != tc.want {
			t.Fatalf("EntityName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
