// Package validate sanity-checks AI recommendations against the same
// physical and financial bounds the deterministic engines use. Reports are
// advisory; nothing here blocks or mutates a recommendation.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/juasmart/juasmart/pkg/types"
)

// validationEfficiency is the blended yield factor used for the coverage
// bound check. It is deliberately looser than the sizing engine's own
// generation model.
const validationEfficiency = 0.75

// Confidence-level buckets.
const (
	LevelHigh     = "High"
	LevelGood     = "Good"
	LevelModerate = "Moderate"
	LevelLow      = "Low"
)

// CheckSizing scores the recommended nameplate against consumption.
// Coverage in [0.9, 1.2] is optimal; below 0.7 or above 1.5 costs
// confidence.
func CheckSizing(systemKW, monthlyKWH, ghi float64) types.ValidationCheck {
	annual := monthlyKWH * 12

	var coverage float64
	if annual > 0 {
		coverage = systemKW * ghi * 365 * validationEfficiency / annual
	}

	confidence := 1.0
	note := fmt.Sprintf("coverage %.0f%% of annual consumption", coverage*100)
	if coverage > 1.5 {
		confidence -= 0.2
		note = fmt.Sprintf("system may be oversized (%.0f%% of consumption)", coverage*100)
	}
	if coverage < 0.7 {
		confidence -= 0.15
		note = fmt.Sprintf("system may be undersized (%.0f%% of consumption)", coverage*100)
	}
	valid := coverage >= 0.9 && coverage <= 1.2
	if valid {
		note = fmt.Sprintf("optimal sizing (%.0f%% coverage)", coverage*100)
	}

	return types.ValidationCheck{
		Name:       "system_sizing",
		Valid:      valid,
		Note:       note,
		Confidence: clamp01(confidence),
	}
}

// CheckPayback scores the payback period. [3, 15] years is plausible,
// [5, 10] is the sweet spot.
func CheckPayback(paybackYears float64) types.ValidationCheck {
	check := types.ValidationCheck{Name: "payback_period"}
	switch {
	case math.IsInf(paybackYears, 1) || paybackYears <= 0:
		check.Note = "no payback at current savings"
		check.Confidence = 0.4
	case paybackYears < 3:
		check.Note = "payback period seems too optimistic (< 3 years)"
		check.Confidence = 0.4
	case paybackYears > 15:
		check.Note = "payback period is very long (> 15 years)"
		check.Confidence = 0.5
	case paybackYears >= 5 && paybackYears <= 10:
		check.Note = "realistic payback period (5-10 years)"
		check.Confidence = 1.0
	default:
		check.Note = fmt.Sprintf("payback period %.1f years", paybackYears)
		check.Confidence = 0.8
	}
	check.Valid = paybackYears >= 3 && paybackYears <= 15
	return check
}

// CheckCostPerWatt scores installed cost against the configured market band.
func CheckCostPerWatt(costPerWatt float64, band [2]float64) types.ValidationCheck {
	low, high := band[0], band[1]
	if low <= 0 || high <= low {
		low, high = 55, 150
	}

	check := types.ValidationCheck{Name: "cost_per_watt"}
	switch {
	case costPerWatt < low:
		check.Note = "cost seems too low, verify equipment quality"
		check.Confidence = 0.5
	case costPerWatt > high:
		check.Note = "cost is higher than market average"
		check.Confidence = 0.6
	case costPerWatt >= 70 && costPerWatt <= 110:
		check.Note = "cost is within typical market range"
		check.Confidence = 1.0
	default:
		check.Note = fmt.Sprintf("cost %.0f KSh/W", costPerWatt)
		check.Confidence = 0.8
	}
	check.Valid = costPerWatt >= low && costPerWatt <= high
	return check
}

// CheckIrradiance scores the site's solar resource. Kenya's GHI runs roughly
// 4.5 to 6.5 kWh/m2/day.
func CheckIrradiance(ghi float64, location string) types.ValidationCheck {
	if location == "" {
		location = "site"
	}
	check := types.ValidationCheck{Name: "irradiance"}
	switch {
	case ghi < 4.5:
		check.Note = fmt.Sprintf("low solar potential in %s (GHI %.1f)", location, ghi)
		check.Confidence = 0.7
	case ghi >= 5.5:
		check.Note = fmt.Sprintf("excellent solar potential in %s (GHI %.1f)", location, ghi)
		check.Confidence = 1.0
	default:
		check.Note = fmt.Sprintf("good solar potential in %s (GHI %.1f)", location, ghi)
		check.Confidence = 0.9
	}
	check.Valid = ghi >= 4.0
	return check
}

// Report runs the four bound checks against a recommendation and buckets the
// mean sub-score into a qualitative level.
func Report(rec types.Recommendation, monthlyKWH, ghi float64, assumptions types.Assumptions) types.ValidationReport {
	var costPerWatt float64
	if rec.Sizing.RequiredSystemSizeKW > 0 {
		costPerWatt = rec.Financial.UpfrontCostKSH / (rec.Sizing.RequiredSystemSizeKW * 1000)
	}

	checks := []types.ValidationCheck{
		CheckSizing(rec.Sizing.RequiredSystemSizeKW, monthlyKWH, ghi),
		CheckPayback(rec.Financial.PaybackPeriodYears),
		CheckCostPerWatt(costPerWatt, assumptions.InstallCostPerWattRange),
		CheckIrradiance(ghi, rec.Location.County),
	}
	return Summarize(checks)
}

// Summarize aggregates checks into an overall report.
func Summarize(checks []types.ValidationCheck) types.ValidationReport {
	rep := types.ValidationReport{Checks: checks}
	if len(checks) == 0 {
		rep.OverallConfidence = 0.5
		rep.Level = LevelModerate
		rep.Stars = Stars(rep.OverallConfidence)
		return rep
	}

	var sum float64
	for _, c := range checks {
		sum += c.Confidence
	}
	rep.OverallConfidence = sum / float64(len(checks))
	rep.Level = Level(rep.OverallConfidence)
	rep.Stars = Stars(rep.OverallConfidence)
	return rep
}

// Level buckets a confidence score.
func Level(confidence float64) string {
	switch {
	case confidence >= 0.85:
		return LevelHigh
	case confidence >= 0.70:
		return LevelGood
	case confidence >= 0.50:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Stars renders a five-star rating for a confidence score.
func Stars(confidence float64) string {
	filled := int(math.Round(clamp01(confidence) * 5))
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
