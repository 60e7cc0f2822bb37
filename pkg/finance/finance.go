// Package finance models the 25-year economics of a solar purchase.
package finance

import (
	"math"

	"github.com/juasmart/juasmart/pkg/types"
)

const (
	// HorizonYears is the modeling horizon for NPV and lifetime figures.
	HorizonYears = 25
	// DiscountRate is the annual discount rate applied in the NPV.
	DiscountRate = 0.08
	// TreesPerTonCO2 converts annual CO2 offset into an equivalent number of
	// mature trees.
	TreesPerTonCO2 = 50
)

// Project combines system cost, battery cost, generation and the effective
// grid rate into payback and NPV. Annual savings are capped by consumption:
// generation beyond what the household uses is not valued at retail rate.
func Project(solarCostKSH, batteryCostKSH, annualGenKWH, annualConsKWH, rateKSHPerKWH float64) types.FinancialProjection {
	upfront := solarCostKSH + batteryCostKSH
	savings := math.Min(annualGenKWH, annualConsKWH) * rateKSHPerKWH

	payback := types.Payback(math.Inf(1))
	if savings > 0 {
		payback = types.Payback(upfront / savings)
	}

	npv := -upfront
	for year := 1; year <= HorizonYears; year++ {
		npv += savings / math.Pow(1+DiscountRate, float64(year))
	}

	return types.FinancialProjection{
		UpfrontCostKSH:       upfront,
		SolarCostKSH:         solarCostKSH,
		BatteryCostKSH:       batteryCostKSH,
		AnnualGenerationKWH:  annualGenKWH,
		AnnualConsumptionKWH: annualConsKWH,
		AnnualSavingsKSH:     savings,
		PaybackYears:         payback,
		NPV25YrKSH:           npv,
	}
}

// ROIPercent is the simple (undiscounted) return over the modeling horizon.
// It is -100 for an investment with no savings.
func ROIPercent(p types.FinancialProjection) float64 {
	if p.UpfrontCostKSH <= 0 {
		return 0
	}
	return (p.AnnualSavingsKSH*HorizonYears - p.UpfrontCostKSH) / p.UpfrontCostKSH * 100
}

// Impact converts annual generation into CO2 offsets using the grid emission
// factor (tCO2 per MWh).
func Impact(annualGenKWH, emissionFactorTPerMWH float64) types.EnvironmentalImpact {
	annualTons := annualGenKWH / 1000 * emissionFactorTPerMWH
	return types.EnvironmentalImpact{
		AnnualCO2OffsetTons: annualTons,
		CO2Offset25YrTons:   annualTons * HorizonYears,
		TreesEquivalent:     int(math.Round(annualTons * TreesPerTonCO2)),
	}
}
