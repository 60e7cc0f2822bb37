package validate

import (
	"fmt"

	"github.com/juasmart/juasmart/pkg/types"
)

// Structural runs the hard technical/price/physics rules against a
// recommendation and returns every violation found. An empty slice means the
// recommendation is internally consistent. Unlike the confidence report
// these rules are pass/fail.
func Structural(rec types.Recommendation, assumptions types.Assumptions) []string {
	var errs []string

	size := rec.Sizing.RequiredSystemSizeKW

	// panel count x wattage must reconstruct the system size within 5%
	if rec.Sizing.PanelCount > 0 && rec.Sizing.PanelWattageW > 0 {
		calc := float64(rec.Sizing.PanelCount*rec.Sizing.PanelWattageW) / 1000
		if size < 0.95*calc || size > 1.05*calc {
			errs = append(errs, fmt.Sprintf(
				"system size mismatch: %d x %dW panels give %.2f kW but recommendation says %.2f kW",
				rec.Sizing.PanelCount, rec.Sizing.PanelWattageW, calc, size))
		}
	}

	// inverter sized 1.1x to 1.3x the array
	if size > 0 && rec.Sizing.InverterSizeKW > 0 {
		if rec.Sizing.InverterSizeKW < 1.1*size || rec.Sizing.InverterSizeKW > 1.3*size {
			errs = append(errs, fmt.Sprintf(
				"inverter %.2f kW is not 1.1-1.3x the %.2f kW array",
				rec.Sizing.InverterSizeKW, size))
		}
	}

	// cost per watt inside the market band
	low, high := assumptions.InstallCostPerWattRange[0], assumptions.InstallCostPerWattRange[1]
	if low <= 0 || high <= low {
		low, high = 55, 150
	}
	if cpw := rec.Financial.CostPerWattKSH; cpw > 0 && (cpw < low || cpw > high) {
		errs = append(errs, fmt.Sprintf(
			"cost per watt %.2f KSh outside the expected %.0f-%.0f KSh range", cpw, low, high))
	}

	// claimed generation cannot beat physics (5% margin)
	ghi := rec.Location.GHIKWHM2Day
	gen := rec.Sizing.TargetAnnualGenerationKWH
	if ghi > 0 && size > 0 && gen > 0 {
		max := size * ghi * 365 * (1 - assumptions.SystemLossesFraction)
		if gen > max*1.05 {
			errs = append(errs, fmt.Sprintf(
				"annual generation %.0f kWh exceeds theoretical maximum %.0f kWh", gen, max))
		}
	}

	return errs
}
