package application

import "fmt"

// Aurora-family state machines report numeric codes. The tables below carry
// the firmware's code vocabularies; an unrecognized code is rendered as
// "Unknown (<code>)" with the raw code preserved next to it, never dropped.

var globalStates = map[int64]string{
	0:   "Sending Parameters",
	1:   "Waiting for Sun/Grid",
	2:   "Checking Grid",
	3:   "Measuring Riso",
	4:   "DcDc Start",
	5:   "Inverter Start",
	6:   "Run",
	7:   "Recovery",
	8:   "Pause",
	9:   "Ground Fault",
	10:  "OTH Fault",
	11:  "Address Setting",
	12:  "Self Test",
	13:  "Self Test Fail",
	14:  "Sensor Test + Measure Riso",
	15:  "Leak Fault",
	16:  "Waiting for Manual Reset",
	17:  "Internal Error E026",
	18:  "Internal Error E027",
	19:  "Internal Error E028",
	20:  "Internal Error E029",
	21:  "Internal Error E030",
	22:  "Sending Wind Table",
	23:  "Failed Sending Table",
	24:  "UTH Fault",
	25:  "Remote Off",
	26:  "Interlock Fail",
	27:  "Executing Autotest",
	30:  "Waiting Sun",
	31:  "Temperature Fault",
	32:  "Fan Stuck",
	33:  "Int. Com. Fault",
	34:  "Slave Insertion",
	35:  "DC Switch Open",
	36:  "TRAS Switch Open",
	37:  "MASTER Exclusion",
	38:  "Auto Exclusion",
	98:  "Erasing Internal EEprom",
	99:  "Erasing External EEprom",
	100: "Counting EEprom",
	101: "Freeze",
}

var dcdcStates = map[int64]string{
	0:  "DcDc Off",
	1:  "Ramp Start",
	2:  "MPPT",
	3:  "Not Used",
	4:  "Input Over Current",
	5:  "Input Under Voltage",
	6:  "Input Over Voltage",
	7:  "Input Low",
	8:  "No Parameters",
	9:  "Bulk Over Voltage",
	10: "Communication Error",
	11: "Ramp Fail",
	12: "Internal Error",
	13: "Input Mode Error",
	14: "Ground Fault",
	15: "Inverter Fail",
	16: "DcDc IGBT Saturation",
	17: "DcDc Current Leak Fail",
	18: "DcDc Grid Fail",
	19: "DcDc Communication Error",
}

var inverterStates = map[int64]string{
	0:  "Stand By",
	1:  "Checking Grid",
	2:  "Run",
	3:  "Bulk Over Voltage",
	4:  "Output Over Current",
	5:  "IGBT Saturation",
	6:  "Bulk Under Voltage",
	7:  "Degauss Error",
	8:  "No Parameters",
	9:  "Bulk Low",
	10: "Grid Over Voltage",
	11: "Communication Error",
	12: "Degaussing",
	13: "Starting",
	14: "Bulk Cap Fail",
	15: "Leak Fail",
	16: "DcDc Fail",
	17: "Ileak Sensor Fail",
	18: "Self Test: Relay Inverter",
	19: "Self Test: Wait for Sensor Test",
	20: "Self Test: Test Relay DcDc + Sensor",
	21: "Self Test: Relay Inverter Fail",
	22: "Self Test: Timeout Fail",
	23: "Self Test: Relay DcDc Fail",
	24: "Self Test 1",
	25: "Waiting Self Test Start",
	26: "DC Injection",
	27: "Self Test 2",
	28: "Self Test 3",
	29: "Self Test 4",
	30: "Internal Error",
	31: "Internal Error",
	40: "Forbidden State",
	41: "Input Under Current",
	42: "Zero Power",
	43: "Grid Not Present",
	44: "Waiting Start",
	45: "MPPT",
	46: "Grid Fail",
	47: "Input Over Current",
}

var alarmStates = map[int64]string{
	0:  "No Alarm",
	1:  "Sun Low",
	2:  "Input Over Current",
	3:  "Input Under Voltage",
	4:  "Input Over Voltage",
	5:  "Sun Low",
	6:  "No Parameters",
	7:  "Bulk Over Voltage",
	8:  "Communication Error",
	9:  "Output Over Current",
	10: "IGBT Saturation",
	11: "Bulk Under Voltage",
	12: "Internal Error",
	13: "Grid Fail",
	14: "Bulk Low",
	15: "Ramp Fail",
	16: "DcDc Fail",
	17: "Wrong Mode",
	18: "Ground Fault",
	19: "Over Temperature",
	20: "Bulk Cap Fail",
	21: "Inverter Fail",
	22: "Start Timeout",
	23: "Ground Fault",
	24: "Degauss Error",
	25: "Ileak Sensor Fail",
	26: "DcDc Fail",
	27: "Self Test Error 1",
	28: "Self Test Error 2",
	29: "Self Test Error 3",
	30: "Self Test Error 4",
	31: "DC Injection Error",
	32: "Grid Over Voltage",
	33: "Grid Under Voltage",
	34: "Grid Over Frequency",
	35: "Grid Under Frequency",
	36: "Z Grid High",
	37: "Internal Error",
	38: "Riso Low",
	39: "Vref Error",
	40: "Error Measure V",
	41: "Error Measure F",
	42: "Error Measure Z",
	43: "Error Measure Ileak",
	44: "Error Read V",
	45: "Error Read I",
	46: "Table Fail",
	47: "Fan Fail",
	48: "UTH",
	49: "Interlock Fail",
	50: "Remote Off",
	51: "Vout Avg Error",
	52: "Battery Low",
	53: "Clock Fail",
	54: "Input Under Current",
	55: "Zero Power",
	56: "Fan Stuck",
	57: "DC Switch Open",
	58: "TRAS Switch Open",
	59: "AC Switch Open",
	60: "Bulk Under Voltage",
	61: "Auto Exclusion",
	62: "Grid df/dt",
	63: "Den Switch Open",
	64: "Junction Box Fail",
}

var stateTables = map[string]map[int64]string{
	"GlobalSt":   globalStates,
	"DcSt1":      dcdcStates,
	"DcSt2":      dcdcStates,
	"InverterSt": inverterStates,
	"AlarmSt":    alarmStates,
	"AlarmState": alarmStates,
	"Alm1":       alarmStates,
	"Alm2":       alarmStates,
	"Alm3":       alarmStates,
}

// StateTableFor returns the code vocabulary for a canonical state point.
func StateTableFor(canonical string) (map[int64]string, bool) {
	t, ok := stateTables[canonical]
	return t, ok
}

// TranslateState renders a state code as text. Codes outside the table still
// produce a stable label so new firmware never breaks normalization.
func TranslateState(canonical string, code int64) (string, bool) {
	table, ok := stateTables[canonical]
	if !ok {
		return "", false
	}
	if label, known := table[code]; known {
		return label, true
	}
	return fmt.Sprintf("Unknown (%d)", code), true
}
