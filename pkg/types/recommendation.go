package types

import "fmt"

// Recommendation is the structured object returned by the LLM boundary. The
// JSON keys mirror the schema the model is instructed to produce.
type Recommendation struct {
	ExecutiveSummary string           `json:"executive_summary"`
	Location         LocationAnalysis `json:"location_analysis"`
	Sizing           SystemSizing     `json:"system_sizing"`
	Equipment        EquipmentPicks   `json:"equipment_recommendations"`
	Financial        FinancialFigures `json:"financial_analysis"`
	Environmental    ImpactFigures    `json:"environmental_impact"`
	ConfidenceScore  float64          `json:"confidence_score"`
	UncertaintyNotes []string         `json:"uncertainty_notes"`
}

// LocationAnalysis echoes the site context the recommendation was built on.
type LocationAnalysis struct {
	County           string  `json:"county"`
	GHIKWHM2Day      float64 `json:"ghi_kwh_m2_day"`
	TariffCategory   string  `json:"tariff_category"`
	EffectiveRateKSH float64 `json:"effective_rate_ksh_per_kwh"`
}

// SystemSizing is the physical configuration the model recommends.
type SystemSizing struct {
	TargetAnnualGenerationKWH float64 `json:"target_annual_generation_kwh"`
	RequiredSystemSizeKW      float64 `json:"required_system_size_kw"`
	PanelWattageW             int     `json:"panel_wattage_w"`
	PanelCount                int     `json:"panel_count"`
	TotalPanelCapacityKW      float64 `json:"total_panel_capacity_kw"`
	InverterSizeKW            float64 `json:"inverter_size_kw"`
	BatteryCapacityKWH        float64 `json:"battery_capacity_kwh"`
}

// EquipmentPick names a specific locally available product.
type EquipmentPick struct {
	Model    string `json:"model"`
	Brand    string `json:"brand"`
	Type     string `json:"type,omitempty"`
	Supplier string `json:"supplier"`
}

// EquipmentPicks groups the recommended products.
type EquipmentPicks struct {
	Panel    EquipmentPick `json:"panel"`
	Inverter EquipmentPick `json:"inverter"`
	Battery  EquipmentPick `json:"battery"`
}

// FinancialFigures is the model's financial analysis.
type FinancialFigures struct {
	UpfrontCostKSH         float64 `json:"upfront_cost_ksh"`
	CostPerWattKSH         float64 `json:"cost_per_watt_ksh"`
	AnnualSavingsKSH       float64 `json:"annual_savings_ksh"`
	PaybackPeriodYears     float64 `json:"payback_period_years"`
	NetMeteringCreditKSHYr float64 `json:"net_metering_credit_ksh_per_year"`
	NPV25YrKSH             float64 `json:"25_year_npv_ksh"`
}

// ImpactFigures is the model's environmental analysis.
type ImpactFigures struct {
	AnnualCO2OffsetTons float64 `json:"annual_co2_offset_tons"`
	CO2Offset25YrTons   float64 `json:"25_year_co2_offset_tons"`
}

// CheckSchema verifies the fields the rest of the pipeline depends on are
// populated. A recommendation failing CheckSchema is a parse failure, not a
// service failure.
func (r Recommendation) CheckSchema() error {
	if r.ExecutiveSummary == "" {
		return fmt.Errorf("%w: missing executive_summary", ErrResponseParse)
	}
	if r.Sizing.RequiredSystemSizeKW <= 0 {
		return fmt.Errorf("%w: missing system_sizing.required_system_size_kw", ErrResponseParse)
	}
	if r.Sizing.PanelCount <= 0 || r.Sizing.PanelWattageW <= 0 {
		return fmt.Errorf("%w: missing panel configuration", ErrResponseParse)
	}
	if r.Financial.UpfrontCostKSH <= 0 {
		return fmt.Errorf("%w: missing financial_analysis.upfront_cost_ksh", ErrResponseParse)
	}
	return nil
}

// ExistingConfig is a deterministic configuration the remote model must not
// override; it is embedded into the prompt as a hard constraint.
type ExistingConfig struct {
	SystemKW      float64 `json:"system_kw"`
	PanelCount    int     `json:"panel_count"`
	PanelWattageW int     `json:"panel_wattage"`
	InverterKW    float64 `json:"inverter_kw"`
	SolarCostKSH  float64 `json:"solar_cost"`
	BatteryCostKSH float64 `json:"battery_cost"`
	UpfrontCostKSH float64 `json:"upfront_cost"`
	BatteryType   string  `json:"battery_type,omitempty"`
	BatteryUnits  int     `json:"battery_units,omitempty"`
	BatteryUnitAh int     `json:"battery_unit_ah,omitempty"`
	BatteryVoltage int    `json:"battery_voltage,omitempty"`
	BatteryConfig string  `json:"battery_config,omitempty"`
}
