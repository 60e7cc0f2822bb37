package types

// DaysPerMonth is the average month length used for monthly/annual
// conversions throughout the pipeline.
const DaysPerMonth = 30.44

// ApplianceSpec holds the rated power and typical daily duty of a known
// appliance.
type ApplianceSpec struct {
	PowerWatts float64 `json:"powerWatts"`
	DailyHours float64 `json:"dailyHours"`
}

// CustomAppliance is an appliance supplied with explicit power/duty figures,
// bypassing the built-in spec lookup.
type CustomAppliance struct {
	Name       string  `json:"name"`
	PowerWatts float64 `json:"powerWatts"`
	DailyHours float64 `json:"dailyHours"`
	Count      int     `json:"count"`
}

// ConsumptionProfile captures how a monthly consumption figure was arrived
// at. MonthlyKWH is authoritative; the appliance fields are informational.
type ConsumptionProfile struct {
	MonthlyKWH float64 `json:"monthlyKWH"`

	// Appliances maps known appliance names to unit counts.
	Appliances map[string]int `json:"appliances,omitempty"`
	// Custom appliances are added on top of the base appliance estimate.
	Custom []CustomAppliance `json:"custom,omitempty"`
}
