package mapping

// Alias maps a VSN700 proprietary point name onto its SunSpec canonical name
// together with the standards metadata the VSN700 feed itself does not carry.
// The table is hardcoded on purpose: semantically identical points must be
// merged by an explicit, reviewed mapping, never by string similarity.
type Alias struct {
	Canonical   string
	Model       ModelID
	Category    Category
	Unit        string
	StateClass  string
	DeviceClass string
	InModbus    bool
}

var vsn700Aliases = map[string]Alias{
	// Inverter AC measurements (M103).
	"Pgrid":  {Canonical: "W", Model: ModelInverter, Category: CategoryInverter, Unit: "W", StateClass: "measurement", DeviceClass: "power", InModbus: true},
	"Qgrid":  {Canonical: "VAR", Model: ModelInverter, Category: CategoryInverter, Unit: "var", StateClass: "measurement", DeviceClass: "reactive_power", InModbus: true},
	"Fgrid":  {Canonical: "Hz", Model: ModelInverter, Category: CategoryInverter, Unit: "Hz", StateClass: "measurement", DeviceClass: "frequency", InModbus: true},
	"Igrid":  {Canonical: "A", Model: ModelInverter, Category: CategoryInverter, Unit: "A", StateClass: "measurement", DeviceClass: "current", InModbus: true},
	"Vgrid":  {Canonical: "PhVphA", Model: ModelInverter, Category: CategoryInverter, Unit: "V", StateClass: "measurement", DeviceClass: "voltage", InModbus: true},
	"cosPhi": {Canonical: "PF", Model: ModelInverter, Category: CategoryInverter, Unit: "%", StateClass: "measurement", DeviceClass: "power_factor", InModbus: true},
	"Pin":    {Canonical: "DCW", Model: ModelInverter, Category: CategoryInverter, Unit: "W", StateClass: "measurement", DeviceClass: "power", InModbus: true},

	// Inverter temperatures (M103).
	"TempInv": {Canonical: "TmpOt", Model: ModelInverter, Category: CategoryInverter, Unit: "°C", StateClass: "measurement", DeviceClass: "temperature", InModbus: true},
	"Temp1":   {Canonical: "TmpCab", Model: ModelInverter, Category: CategoryInverter, Unit: "°C", StateClass: "measurement", DeviceClass: "temperature", InModbus: true},

	// Lifetime energy counter (M103). ETotal and Ein are the same register
	// under two firmware spellings; the resolver keeps the first it sees.
	"ETotal": {Canonical: "WH", Model: ModelInverter, Category: CategoryEnergyCounter, Unit: "Wh", StateClass: "total_increasing", DeviceClass: "energy", InModbus: true},
	"Ein":    {Canonical: "WH", Model: ModelInverter, Category: CategoryEnergyCounter, Unit: "Wh", StateClass: "total_increasing", DeviceClass: "energy", InModbus: true},

	// DC string measurements (M160).
	"Iin1": {Canonical: "DCA_1", Model: ModelMPPT, Category: CategoryMPPT, Unit: "A", StateClass: "measurement", DeviceClass: "current", InModbus: true},
	"Vin1": {Canonical: "DCV_1", Model: ModelMPPT, Category: CategoryMPPT, Unit: "V", StateClass: "measurement", DeviceClass: "voltage", InModbus: true},
	"Pin1": {Canonical: "DCW_1", Model: ModelMPPT, Category: CategoryMPPT, Unit: "W", StateClass: "measurement", DeviceClass: "power", InModbus: true},
	"Iin2": {Canonical: "DCA_2", Model: ModelMPPT, Category: CategoryMPPT, Unit: "A", StateClass: "measurement", DeviceClass: "current", InModbus: true},
	"Vin2": {Canonical: "DCV_2", Model: ModelMPPT, Category: CategoryMPPT, Unit: "V", StateClass: "measurement", DeviceClass: "voltage", InModbus: true},
	"Pin2": {Canonical: "DCW_2", Model: ModelMPPT, Category: CategoryMPPT, Unit: "W", StateClass: "measurement", DeviceClass: "power", InModbus: true},

	// Common model identity points (M1).
	"C_Mn":  {Canonical: "Mn", Model: ModelCommon, Category: CategoryDeviceInfo, InModbus: true},
	"C_Md":  {Canonical: "Md", Model: ModelCommon, Category: CategoryDeviceInfo, InModbus: true},
	"C_Opt": {Canonical: "Opt", Model: ModelCommon, Category: CategoryDeviceInfo, InModbus: true},
	"C_Vr":  {Canonical: "Vr", Model: ModelCommon, Category: CategoryDeviceInfo, InModbus: true},
	"C_SN":  {Canonical: "SN", Model: ModelCommon, Category: CategoryDeviceInfo, InModbus: true},
	"C_DA":  {Canonical: "DA", Model: ModelCommon, Category: CategoryDeviceInfo, InModbus: true},

	// Battery state of charge and health (M802).
	"Soc": {Canonical: "SoC", Model: ModelStorage, Category: CategoryBattery, Unit: "%", StateClass: "measurement", DeviceClass: "battery"},
	"Soh": {Canonical: "SoH", Model: ModelStorage, Category: CategoryBattery, Unit: "%", StateClass: "measurement"},
}

// vsn700AlternateNames folds alternate wire spellings onto the name the alias
// table keys on. Some firmware releases report TSoc where others report Soc.
var vsn700AlternateNames = map[string]string{
	"TSoc": "Soc",
}

// ResolveAlias returns the standards-based alias for a VSN700 proprietary
// point name, if one exists.
func ResolveAlias(vsn700Name string) (Alias, bool) {
	if norm, ok := vsn700AlternateNames[vsn700Name]; ok {
		vsn700Name = norm
	}
	a, ok := vsn700Aliases[vsn700Name]
	return a, ok
}

// AliasedNames returns every VSN700 name the alias table covers.
func AliasedNames() []string {
	names := make([]string, 0, len(vsn700Aliases))
	for name := range vsn700Aliases {
		names = append(names, name)
	}
	return names
}

// vendorModelPoints are points defined by the ABB vendor extension model
// (M64061): state machines, alarms and battery counters.
var vendorModelPoints = map[string]struct{}{
	"AlarmState": {}, "AlarmSt": {}, "Alm1": {}, "Alm2": {}, "Alm3": {},
	"GlobalSt": {}, "DcSt1": {}, "DcSt2": {}, "InverterSt": {},
	"BatteryMode": {}, "BatteryStatus": {}, "FaultStatus": {},
	"IsolResist": {}, "Mode": {},
	"RemoteControlRequest": {}, "RemoteControlStatus": {},
	"ECharge": {}, "EDischarge": {}, "ETotCharge": {}, "ETotDischarge": {},
}

// IsVendorModelPoint reports whether name belongs to the M64061 extension
// model.
func IsVendorModelPoint(name string) bool {
	_, ok := vendorModelPoints[name]
	return ok
}

// proprietaryPoints are REST-only points with no modbus or standards model:
// house metering, datalogger system state and configuration.
var proprietaryPoints = map[string]struct{}{
	"Tmp": {}, "BattNum": {}, "Chc": {}, "Dhc": {},
	"Wbat_charge": {}, "Wbat_discharge": {},
	"HousePgrid": {}, "HousePgrid_L1": {}, "HousePgrid_L2": {}, "HousePgrid_L3": {},
	"HouseIgrid": {}, "HouseIgrid_L1": {}, "HouseIgrid_L2": {}, "HouseIgrid_L3": {},
	"SysTime": {}, "MemFree": {}, "FlashFree": {}, "SysLoad": {},
	"HDD1Size": {}, "HDD1Used": {},
	"UploadAddr": {}, "UploadPort": {}, "ApplVer": {}, "SerNum": {}, "HWVer": {},
	"SplitPhase": {}, "CountryStd": {},
}

// IsProprietaryPoint reports whether name is a REST-only proprietary point.
func IsProprietaryPoint(name string) bool {
	_, ok := proprietaryPoints[name]
	return ok
}
