package types

// CostBreakdown itemizes the upfront cost of a solar array. TotalKSH is the
// exact arithmetic sum of the seven component items; there are no hidden
// adjustments.
type CostBreakdown struct {
	PanelCount    int     `json:"panelCount"`
	PanelWattageW int     `json:"panelWattageW"`
	// ActualSystemKW is recomputed from the rounded panel count and is always
	// >= the requested nameplate capacity.
	ActualSystemKW     float64 `json:"actualSystemKW"`
	InverterCapacityKW float64 `json:"inverterCapacityKW"`

	PanelCostKSH        float64 `json:"panelCostKSH"`
	InverterCostKSH     float64 `json:"inverterCostKSH"`
	VATKSH              float64 `json:"vatKSH"`
	MountingCostKSH     float64 `json:"mountingCostKSH"`
	SafetyCostKSH       float64 `json:"safetyCostKSH"`
	InstallationCostKSH float64 `json:"installationCostKSH"`
	BOSCostKSH          float64 `json:"bosCostKSH"`

	TotalKSH       float64 `json:"totalKSH"`
	CostPerWattKSH float64 `json:"costPerWattKSH"`
}

// Zero reports whether the breakdown is a degraded-mode placeholder.
func (b CostBreakdown) Zero() bool {
	return b.PanelCount == 0 && b.TotalKSH == 0
}

// InverterModel is a catalog entry for an inverter.
type InverterModel struct {
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	CapacityKW float64 `json:"capacityKW"`
	PriceKSH   float64 `json:"priceKSH"`
}

// PanelModel is a catalog entry for a PV module.
type PanelModel struct {
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	WattageW int     `json:"wattageW"`
	PriceKSH float64 `json:"priceKSH"`
}

// EquipmentCatalog lists locally available equipment with KSh pricing.
type EquipmentCatalog struct {
	Panels    []PanelModel    `json:"panels"`
	Inverters []InverterModel `json:"inverters"`
}

// Assumptions carries the baseline modeling assumptions shared by the sizing
// engine, the validators and the LLM prompt.
type Assumptions struct {
	SystemLossesFraction     float64    `json:"systemLossesFraction"`
	DegradationRatePerYear   float64    `json:"degradationRatePerYear"`
	InstallCostPerWattRange  [2]float64 `json:"installCostPerWattRangeKSH"`
	GridEmissionFactorTPerMWH float64   `json:"gridEmissionFactorTCO2PerMWH"`
}

// CountyIrradiance is one row of the county -> average GHI table.
type CountyIrradiance struct {
	County              string  `json:"county"`
	AvgIrradianceKWHM2D float64 `json:"avgIrradianceKWHM2Day"`
}
