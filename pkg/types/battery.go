package types

// BatteryChemistry enumerates the supported battery chemistries.
type BatteryChemistry string

const (
	BatteryLithium  BatteryChemistry = "Lithium"
	BatteryLeadAcid BatteryChemistry = "Lead-Acid"
	BatteryGel      BatteryChemistry = "Gel"
)

// Valid reports whether the chemistry is one of the supported values.
func (c BatteryChemistry) Valid() bool {
	switch c {
	case BatteryLithium, BatteryLeadAcid, BatteryGel:
		return true
	}
	return false
}

// BatterySpec describes a sized battery bank. Capacities are the actual
// figures recomputed from the chosen standard unit size, so they may exceed
// the requested backup energy; sizes are never rounded down.
type BatterySpec struct {
	Chemistry BatteryChemistry `json:"chemistry"`

	RequiredBackupKWH float64 `json:"requiredBackupKWH"`
	TotalCapacityKWH  float64 `json:"totalCapacityKWH"`
	UsableCapacityKWH float64 `json:"usableCapacityKWH"`
	DepthOfDischarge  float64 `json:"depthOfDischarge"`

	// SystemVoltage is 12, 24 or 48 depending on the PV system size.
	SystemVoltage int `json:"systemVoltage"`
	// UnitVoltage is the terminal voltage of a single unit. Lead-Acid and Gel
	// units are always 12 V regardless of system voltage.
	UnitVoltage int `json:"unitVoltage"`

	// KWHRated is true for lithium packs sold by energy rating rather than
	// amp-hours.
	KWHRated bool `json:"kwhRated"`
	// UnitKWH is the energy of a single unit.
	UnitKWH float64 `json:"unitKWH"`
	// UnitAh is the amp-hour rating of a single unit. For kWh-rated packs this
	// is the equivalent rating at system voltage, reported for display.
	UnitAh int `json:"unitAh"`

	SeriesCount   int `json:"seriesCount"`
	ParallelCount int `json:"parallelCount"`
	TotalUnits    int `json:"totalUnits"`
	// Configuration is "{parallel}P{series}S", or "{series}S" when there is a
	// single string.
	Configuration string `json:"configuration"`
}

// BatteryCost prices a sized bank.
type BatteryCost struct {
	InitialCostKSH float64 `json:"initialCostKSH"`
	CostPerKWH     float64 `json:"costPerKWH"`
	CycleLife      int     `json:"cycleLife"`
	WarrantyYears  int     `json:"warrantyYears"`
}

// BatteryLifecycle is the total cost of ownership of a bank over an analysis
// horizon, including replacements and maintenance.
type BatteryLifecycle struct {
	InitialCostKSH      float64 `json:"initialCostKSH"`
	ReplacementsNeeded  int     `json:"replacementsNeeded"`
	ReplacementCostKSH  float64 `json:"replacementCostKSH"`
	MaintenanceCostKSH  float64 `json:"maintenanceCostKSH"`
	TotalCostKSH        float64 `json:"totalCostKSH"`
	CostPerYearKSH      float64 `json:"costPerYearKSH"`
	LevelizedKSHPerKWH  float64 `json:"levelizedKSHPerKWH"`
}

// BatteryPlan is the full bank design for one chemistry, including cost and lifecycle.
type BatteryPlan struct {
	Spec      BatterySpec      `json:"spec"`
	Cost      BatteryCost      `json:"cost"`
	Lifecycle BatteryLifecycle `json:"lifecycle"`
}
