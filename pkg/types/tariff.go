package types

import "fmt"

// TariffCategoryUnknown is reported when no tier applies (zero consumption or
// a missing schedule).
const TariffCategoryUnknown = "Unknown"

// TariffTier is one band of the EPRA domestic tariff schedule.
type TariffTier struct {
	Name string `json:"name"`
	// MinKWH is the inclusive lower bound of the band.
	MinKWH float64 `json:"minKWH"`
	// MaxKWH is the inclusive upper bound of the band. A value <= 0 marks the
	// band as open-ended.
	MaxKWH float64 `json:"maxKWH"`
	// BaseRateKSHPerKWH is the base energy rate, exclusive of pass-through
	// charges and VAT.
	BaseRateKSHPerKWH float64 `json:"baseRateKSHPerKWH"`
}

// OpenEnded reports whether the tier has no upper bound.
func (t TariffTier) OpenEnded() bool {
	return t.MaxKWH <= 0
}

// TariffSchedule is the ordered tier table plus the flat surcharges applied on
// top of the base rate.
type TariffSchedule struct {
	Tiers []TariffTier `json:"tiers"`

	// PassThroughKSHPerKWH is the combined fuel/forex/inflation pass-through
	// charge, billed per unit on the whole consumption.
	PassThroughKSHPerKWH float64 `json:"passThroughKSHPerKWH"`

	// VATRate is applied multiplicatively on base + pass-through.
	VATRate float64 `json:"vatRate"`
}

// Validate checks that the tier table is ordered, contiguous and priced.
// A schedule that fails Validate is malformed reference data, not merely
// missing.
func (s TariffSchedule) Validate() error {
	if len(s.Tiers) == 0 {
		return fmt.Errorf("%w: tariff schedule has no tiers", ErrMalformedReferenceData)
	}
	for i, tier := range s.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("%w: tier %d has no name", ErrMalformedReferenceData, i)
		}
		if tier.BaseRateKSHPerKWH <= 0 {
			return fmt.Errorf("%w: tier %q has non-positive rate", ErrMalformedReferenceData, tier.Name)
		}
		if !tier.OpenEnded() && tier.MaxKWH < tier.MinKWH {
			return fmt.Errorf("%w: tier %q range inverted (%v > %v)", ErrMalformedReferenceData, tier.Name, tier.MinKWH, tier.MaxKWH)
		}
		if i > 0 {
			prev := s.Tiers[i-1]
			if prev.OpenEnded() {
				return fmt.Errorf("%w: tier %q follows open-ended tier %q", ErrMalformedReferenceData, tier.Name, prev.Name)
			}
			if tier.MinKWH <= prev.MinKWH {
				return fmt.Errorf("%w: tier %q out of order", ErrMalformedReferenceData, tier.Name)
			}
		}
	}
	if s.VATRate < 0 || s.VATRate >= 1 {
		return fmt.Errorf("%w: vat rate %v out of range", ErrMalformedReferenceData, s.VATRate)
	}
	if s.PassThroughKSHPerKWH < 0 {
		return fmt.Errorf("%w: negative pass-through rate", ErrMalformedReferenceData)
	}
	return nil
}

// TierBilling records the quantity billed inside a single tier.
type TierBilling struct {
	Tier    string  `json:"tier"`
	KWH     float64 `json:"kwh"`
	RateKSH float64 `json:"rateKSH"`
	CostKSH float64 `json:"costKSH"`
}

// TariffResult is the outcome of billing one month of consumption.
type TariffResult struct {
	ConsumptionKWH     float64       `json:"consumptionKWH"`
	Category           string        `json:"category"`
	Tiers              []TierBilling `json:"tiers,omitempty"`
	BaseCostKSH        float64       `json:"baseCostKSH"`
	PassThroughCostKSH float64       `json:"passThroughCostKSH"`
	VATKSH             float64       `json:"vatKSH"`
	TotalCostKSH       float64       `json:"totalCostKSH"`
	// EffectiveRateKSHPerKWH is TotalCostKSH / ConsumptionKWH, 0 for zero
	// consumption.
	EffectiveRateKSHPerKWH float64 `json:"effectiveRateKSHPerKWH"`
}
