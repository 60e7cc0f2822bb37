package types

import (
	"encoding/json"
	"math"
)

// Payback is a payback period in years. An unbounded payback (annual savings
// <= 0) is represented as +Inf internally and serializes as JSON null so it
// can never be mistaken for a finite number.
type Payback float64

// Unbounded reports whether the investment never pays back.
func (p Payback) Unbounded() bool {
	return math.IsInf(float64(p), 1)
}

func (p Payback) MarshalJSON() ([]byte, error) {
	if p.Unbounded() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(p))
}

func (p *Payback) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Payback(math.Inf(1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Payback(v)
	return nil
}

// FinancialProjection is the 25-year financial view of a system purchase.
// PaybackYears and NPV are computed from the same UpfrontCostKSH and
// AnnualSavingsKSH shown here; there is no recomputation drift between the
// displayed and modeled figures.
type FinancialProjection struct {
	UpfrontCostKSH      float64 `json:"upfrontCostKSH"`
	SolarCostKSH        float64 `json:"solarCostKSH"`
	BatteryCostKSH      float64 `json:"batteryCostKSH"`
	AnnualGenerationKWH float64 `json:"annualGenerationKWH"`
	AnnualConsumptionKWH float64 `json:"annualConsumptionKWH"`

	// AnnualSavingsKSH = min(generation, consumption) * effective rate.
	// Savings are capped by consumption: excess generation is not valued at
	// retail rate in this model.
	AnnualSavingsKSH float64 `json:"annualSavingsKSH"`

	PaybackYears Payback `json:"paybackYears"`
	NPV25YrKSH   float64 `json:"npv25YrKSH"`
}

// EnvironmentalImpact is the CO2 view of the projected generation.
type EnvironmentalImpact struct {
	AnnualCO2OffsetTons float64 `json:"annualCO2OffsetTons"`
	CO2Offset25YrTons   float64 `json:"co2Offset25YrTons"`
	TreesEquivalent     int     `json:"treesEquivalent"`
}

// Estimate is the combined output of the deterministic pipeline for one
// consumption/irradiance scenario: sizing, costing and financials together.
type Estimate struct {
	RequestedSystemKW float64             `json:"requestedSystemKW"`
	Breakdown         CostBreakdown       `json:"breakdown"`
	Finance           FinancialProjection `json:"finance"`
	Impact            EnvironmentalImpact `json:"impact"`
	// CoveragePercent is annual generation over annual consumption.
	CoveragePercent float64 `json:"coveragePercent"`
}
