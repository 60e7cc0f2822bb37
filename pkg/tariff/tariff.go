// Package tariff bills monthly grid consumption against the EPRA domestic
// tariff schedule.
package tariff

import (
	"fmt"

	"github.com/juasmart/juasmart/pkg/types"
)

// Categorize returns the tier that prices the given consumption under EPRA
// block billing: the highest tier whose lower bound the total consumption
// reaches. The second return is false when consumption is not positive.
func Categorize(s types.TariffSchedule, kwh float64) (types.TariffTier, bool) {
	if kwh <= 0 || len(s.Tiers) == 0 {
		return types.TariffTier{}, false
	}
	tier := s.Tiers[0]
	for _, t := range s.Tiers[1:] {
		if kwh >= t.MinKWH {
			tier = t
		}
	}
	return tier, true
}

// Bill computes one month of grid cost for the given consumption. All units
// are billed at the categorized tier's rate, the pass-through charge is added
// per unit, and VAT is applied on the subtotal.
func Bill(s types.TariffSchedule, kwh float64) (types.TariffResult, error) {
	if err := s.Validate(); err != nil {
		return types.TariffResult{}, err
	}
	if kwh < 0 {
		return types.TariffResult{}, fmt.Errorf("negative consumption %v kWh", kwh)
	}

	tier, ok := Categorize(s, kwh)
	if !ok {
		res := Degraded(kwh)
		return res, nil
	}

	base := kwh * tier.BaseRateKSHPerKWH
	passThrough := kwh * s.PassThroughKSHPerKWH
	vat := (base + passThrough) * s.VATRate
	total := base + passThrough + vat

	return types.TariffResult{
		ConsumptionKWH: kwh,
		Category:       tier.Name,
		Tiers: []types.TierBilling{{
			Tier:    tier.Name,
			KWH:     kwh,
			RateKSH: tier.BaseRateKSHPerKWH,
			CostKSH: base,
		}},
		BaseCostKSH:            base,
		PassThroughCostKSH:     passThrough,
		VATKSH:                 vat,
		TotalCostKSH:           total,
		EffectiveRateKSHPerKWH: total / kwh,
	}, nil
}

// Degraded is the all-zero result reported when the schedule is unavailable
// or consumption is zero. The category is always Unknown.
func Degraded(kwh float64) types.TariffResult {
	if kwh < 0 {
		kwh = 0
	}
	return types.TariffResult{
		ConsumptionKWH: kwh,
		Category:       types.TariffCategoryUnknown,
	}
}
