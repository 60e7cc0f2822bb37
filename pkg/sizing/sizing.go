// Package sizing turns a consumption target and site irradiance into a
// panel/inverter configuration with an itemized cost breakdown.
package sizing

import (
	"math"

	"github.com/juasmart/juasmart/pkg/finance"
	"github.com/juasmart/juasmart/pkg/types"
)

// Generation model constants. The daily yield of 1 kW of nameplate is
// GHI x ModuleEfficiency x PerformanceRatio x ReferenceAreaFactor; this
// chain is the contract other components (validators, prompts) assume.
const (
	ModuleEfficiency    = 0.15
	PerformanceRatio    = 0.80
	ReferenceAreaFactor = 6.5

	// MinSystemKW is the smallest nameplate ever recommended.
	MinSystemKW = 0.5
	// StandardPanelWattage is the panel unit size systems are built from.
	StandardPanelWattage = 450
)

// Kenyan market pricing constants (KSh).
const (
	PanelRatePerWatt       = 35
	InverterFallbackPerKW  = 25000
	EquipmentVATRate       = 0.16
	MountingPerPanel       = 3000
	earthingKitCost        = 3500
	surgeProtectionCost    = 6000
	lightningArrestorCost  = 4500
	SafetyCost             = earthingKitCost + surgeProtectionCost + lightningArrestorCost
	InstallationBase       = 5000
	InstallationPerKW      = 2000
	BOSRate                = 0.08
)

// inverterSteps are the standard capacity boundaries used when pricing an
// inverter outside the catalog.
var inverterSteps = []float64{1.5, 3, 5, 8, 10}

// DailyYieldPerKW returns the daily kWh produced by 1 kW of nameplate at the
// given irradiance (kWh/m2/day).
func DailyYieldPerKW(ghi float64) float64 {
	return ghi * ModuleEfficiency * PerformanceRatio * ReferenceAreaFactor
}

// AnnualYieldPerKW returns the annual kWh produced by 1 kW of nameplate.
func AnnualYieldPerKW(ghi float64) float64 {
	return DailyYieldPerKW(ghi) * 365
}

// RequiredKW returns the nameplate capacity needed to cover the monthly
// consumption at the given irradiance, floored at MinSystemKW.
func RequiredKW(monthlyKWH, ghi float64) float64 {
	yield := AnnualYieldPerKW(ghi)
	if yield <= 0 {
		return MinSystemKW
	}
	return math.Max(MinSystemKW, monthlyKWH*12/yield)
}

// selectInverter picks the smallest catalog inverter whose capacity covers
// the requested nameplate. Outside the catalog it falls back to flat per-kW
// pricing with the capacity stepped up to a standard boundary.
func selectInverter(requestedKW float64, inverters []types.InverterModel) (capacityKW, priceKSH float64) {
	found := false
	for _, inv := range inverters {
		if inv.CapacityKW < requestedKW {
			continue
		}
		if !found || inv.CapacityKW < capacityKW || (inv.CapacityKW == capacityKW && inv.PriceKSH < priceKSH) {
			capacityKW, priceKSH = inv.CapacityKW, inv.PriceKSH
			found = true
		}
	}
	if found {
		return capacityKW, priceKSH
	}

	capacityKW = math.Ceil(requestedKW)
	for _, step := range inverterSteps {
		if step >= requestedKW {
			capacityKW = step
			break
		}
	}
	return capacityKW, requestedKW * InverterFallbackPerKW
}

// Cost prices a system for the requested nameplate capacity. TotalKSH is the
// exact sum of the seven itemized components.
func Cost(requestedKW float64, inverters []types.InverterModel) types.CostBreakdown {
	if requestedKW <= 0 {
		return types.CostBreakdown{}
	}

	panelCount := int(math.Ceil(requestedKW * 1000 / StandardPanelWattage))
	if panelCount < 1 {
		panelCount = 1
	}
	actualWatts := float64(panelCount * StandardPanelWattage)
	actualKW := actualWatts / 1000

	inverterKW, inverterCost := selectInverter(requestedKW, inverters)

	panelCost := actualWatts * PanelRatePerWatt
	equipment := panelCost + inverterCost
	vat := equipment * EquipmentVATRate
	mounting := float64(panelCount) * MountingPerPanel
	installation := InstallationBase + actualKW*InstallationPerKW
	bos := equipment * BOSRate

	total := panelCost + inverterCost + vat + mounting + SafetyCost + installation + bos

	return types.CostBreakdown{
		PanelCount:          panelCount,
		PanelWattageW:       StandardPanelWattage,
		ActualSystemKW:      actualKW,
		InverterCapacityKW:  inverterKW,
		PanelCostKSH:        panelCost,
		InverterCostKSH:     inverterCost,
		VATKSH:              vat,
		MountingCostKSH:     mounting,
		SafetyCostKSH:       SafetyCost,
		InstallationCostKSH: installation,
		BOSCostKSH:          bos,
		TotalKSH:            total,
		CostPerWattKSH:      total / actualWatts,
	}
}

// BuildEstimate runs the full deterministic pipeline for one scenario:
// sizing, costing, financials and environmental impact.
func BuildEstimate(monthlyKWH, ghi, rateKSHPerKWH, batteryCostKSH float64, inverters []types.InverterModel, a types.Assumptions) types.Estimate {
	requestedKW := RequiredKW(monthlyKWH, ghi)
	return estimateFor(requestedKW, monthlyKWH, ghi, rateKSHPerKWH, batteryCostKSH, inverters, a)
}

func estimateFor(requestedKW, monthlyKWH, ghi, rateKSHPerKWH, batteryCostKSH float64, inverters []types.InverterModel, a types.Assumptions) types.Estimate {
	breakdown := Cost(requestedKW, inverters)
	annualGen := breakdown.ActualSystemKW * AnnualYieldPerKW(ghi)
	annualCons := monthlyKWH * 12

	proj := finance.Project(breakdown.TotalKSH, batteryCostKSH, annualGen, annualCons, rateKSHPerKWH)

	var coverage float64
	if annualCons > 0 {
		coverage = annualGen / annualCons * 100
	}

	return types.Estimate{
		RequestedSystemKW: requestedKW,
		Breakdown:         breakdown,
		Finance:           proj,
		Impact:            finance.Impact(annualGen, a.GridEmissionFactorTPerMWH),
		CoveragePercent:   coverage,
	}
}

// Comparison holds three sizing scenarios around the recommended nameplate.
type Comparison struct {
	Conservative types.Estimate `json:"conservative"`
	Recommended  types.Estimate `json:"recommended"`
	Aggressive   types.Estimate `json:"aggressive"`
}

// Compare sizes the same consumption at 70%, 100% and 130% of the
// recommended nameplate so a buyer can see the cost/coverage trade-off.
func Compare(monthlyKWH, ghi, rateKSHPerKWH, batteryCostKSH float64, inverters []types.InverterModel, a types.Assumptions) Comparison {
	base := RequiredKW(monthlyKWH, ghi)
	return Comparison{
		Conservative: estimateFor(base*0.7, monthlyKWH, ghi, rateKSHPerKWH, batteryCostKSH, inverters, a),
		Recommended:  estimateFor(base, monthlyKWH, ghi, rateKSHPerKWH, batteryCostKSH, inverters, a),
		Aggressive:   estimateFor(base*1.3, monthlyKWH, ghi, rateKSHPerKWH, batteryCostKSH, inverters, a),
	}
}
