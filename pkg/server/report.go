package server

import (
	"fmt"
	"strings"

	"github.com/juasmart/juasmart/pkg/types"
)

// renderReport produces a plain-text summary of a saved assessment, suitable
// for printing or attaching to a quote.
func renderReport(a types.Assessment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SOLAR ASSESSMENT REPORT\n")
	fmt.Fprintf(&b, "=======================\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", a.CreatedAt.Format("2 Jan 2006 15:04 MST"))
	if a.County != "" {
		fmt.Fprintf(&b, "County: %s\n", a.County)
	}
	fmt.Fprintf(&b, "Solar resource: %.2f kWh/m2/day\n", a.GHIKWHM2Day)
	fmt.Fprintf(&b, "System type: %s\n\n", a.SystemType)

	fmt.Fprintf(&b, "CONSUMPTION & TARIFF\n")
	fmt.Fprintf(&b, "Monthly consumption: %.1f kWh\n", a.Profile.MonthlyKWH)
	fmt.Fprintf(&b, "Tariff category: %s\n", a.Tariff.Category)
	fmt.Fprintf(&b, "Monthly bill: KSh %.2f (effective %.2f KSh/kWh)\n\n",
		a.Tariff.TotalCostKSH, a.Tariff.EffectiveRateKSHPerKWH)

	bd := a.Estimate.Breakdown
	fmt.Fprintf(&b, "RECOMMENDED SYSTEM\n")
	fmt.Fprintf(&b, "Array: %d x %d W panels (%.2f kW)\n", bd.PanelCount, bd.PanelWattageW, bd.ActualSystemKW)
	fmt.Fprintf(&b, "Inverter: %.1f kW\n", bd.InverterCapacityKW)
	fmt.Fprintf(&b, "Coverage of consumption: %.0f%%\n\n", a.Estimate.CoveragePercent)

	fmt.Fprintf(&b, "COST BREAKDOWN (KSh)\n")
	fmt.Fprintf(&b, "  Panels:        %12.2f\n", bd.PanelCostKSH)
	fmt.Fprintf(&b, "  Inverter:      %12.2f\n", bd.InverterCostKSH)
	fmt.Fprintf(&b, "  VAT:           %12.2f\n", bd.VATKSH)
	fmt.Fprintf(&b, "  Mounting:      %12.2f\n", bd.MountingCostKSH)
	fmt.Fprintf(&b, "  Safety:        %12.2f\n", bd.SafetyCostKSH)
	fmt.Fprintf(&b, "  Installation:  %12.2f\n", bd.InstallationCostKSH)
	fmt.Fprintf(&b, "  Balance of sys:%12.2f\n", bd.BOSCostKSH)
	fmt.Fprintf(&b, "  TOTAL:         %12.2f (%.1f KSh/W)\n\n", bd.TotalKSH, bd.CostPerWattKSH)

	if a.Battery != nil {
		spec := a.Battery.Spec
		fmt.Fprintf(&b, "BATTERY BANK\n")
		fmt.Fprintf(&b, "Chemistry: %s, %d V system\n", spec.Chemistry, spec.SystemVoltage)
		if spec.KWHRated {
			fmt.Fprintf(&b, "Configuration: %d x %.2f kWh (%s)\n", spec.TotalUnits, spec.UnitKWH, spec.Configuration)
		} else {
			fmt.Fprintf(&b, "Configuration: %d x %d Ah @ %d V (%s)\n", spec.TotalUnits, spec.UnitAh, spec.UnitVoltage, spec.Configuration)
		}
		fmt.Fprintf(&b, "Capacity: %.2f kWh total, %.2f kWh usable\n", spec.TotalCapacityKWH, spec.UsableCapacityKWH)
		fmt.Fprintf(&b, "Cost: KSh %.2f\n\n", a.Battery.Cost.InitialCostKSH)
	}

	fin := a.Estimate.Finance
	fmt.Fprintf(&b, "FINANCIALS\n")
	fmt.Fprintf(&b, "Upfront cost: KSh %.2f\n", fin.UpfrontCostKSH)
	fmt.Fprintf(&b, "Annual savings: KSh %.2f\n", fin.AnnualSavingsKSH)
	if fin.PaybackYears.Unbounded() {
		fmt.Fprintf(&b, "Payback: never (no offsettable consumption)\n")
	} else {
		fmt.Fprintf(&b, "Payback: %.1f years\n", float64(fin.PaybackYears))
	}
	fmt.Fprintf(&b, "25-year NPV: KSh %.2f\n\n", fin.NPV25YrKSH)

	imp := a.Estimate.Impact
	fmt.Fprintf(&b, "ENVIRONMENTAL IMPACT\n")
	fmt.Fprintf(&b, "CO2 offset: %.2f t/year (%.1f t over 25 years)\n", imp.AnnualCO2OffsetTons, imp.CO2Offset25YrTons)
	fmt.Fprintf(&b, "Equivalent trees planted: %d\n", imp.TreesEquivalent)

	if a.Validation != nil {
		fmt.Fprintf(&b, "\nCONFIDENCE: %s %s (%.0f%%)\n", a.Validation.Level, a.Validation.Stars, a.Validation.OverallConfidence*100)
		for _, c := range a.Validation.Checks {
			fmt.Fprintf(&b, "  [%s] %s\n", c.Name, c.Note)
		}
	}

	if a.Recommendation != nil {
		fmt.Fprintf(&b, "\nADVISOR SUMMARY\n%s\n", a.Recommendation.ExecutiveSummary)
	}

	return b.String()
}
