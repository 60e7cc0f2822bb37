// Package battery sizes and prices battery banks for backup and off-grid
// systems.
package battery

import (
	"fmt"
	"math"

	"github.com/juasmart/juasmart/pkg/types"
)

// Depth-of-discharge defaults by chemistry.
const (
	DoDLithium  = 0.90
	DoDGel      = 0.60
	DoDLeadAcid = 0.50
)

// OffGridAutonomyDays is how many days an off-grid bank must carry the house
// without sun.
const OffGridAutonomyDays = 2

// Voltage topology step function. The nameplate capacity of the PV system
// picks the bus voltage, which fixes the series count of 12 V units.
const (
	smallSystemKW  = 1.5
	mediumSystemKW = 5
)

// kwhPackSizes are the standard energy ratings of rack-mount lithium packs
// sold in the Kenyan market.
var kwhPackSizes = []float64{2.56, 5.12, 7.68, 10.24, 15.36, 20.48}

// kwhPackThreshold is the bank size above which lithium moves from 12 V
// amp-hour units to kWh-rated packs.
const kwhPackThreshold = 2.5

// Standard amp-hour unit sizes. Lead-Acid and Gel units are 12 V cells
// regardless of bus voltage.
var (
	ahSizesLithium  = []int{50, 100, 150, 200, 300}
	ahSizesLeadAcid = []int{50, 80, 100, 120, 150, 200}
)

const ahUnitVoltage = 12

// BackupRequirement derives the backup energy a bank must hold. Hybrid
// systems ride through outages of the given duration; off-grid systems carry
// full autonomy days regardless of the requested hours.
func BackupRequirement(dailyConsumptionKWH, backupHours float64, systemType types.SystemType) float64 {
	if systemType == types.SystemOffGrid {
		return dailyConsumptionKWH * OffGridAutonomyDays
	}
	return dailyConsumptionKWH / 24 * backupHours
}

// DefaultDoD returns the depth-of-discharge default for a chemistry.
func DefaultDoD(chem types.BatteryChemistry) float64 {
	switch chem {
	case types.BatteryLithium:
		return DoDLithium
	case types.BatteryGel:
		return DoDGel
	default:
		return DoDLeadAcid
	}
}

// systemVoltage returns the bus voltage and series count for a PV nameplate.
func systemVoltage(systemKW float64) (voltage, series int) {
	switch {
	case systemKW < smallSystemKW:
		return 12, 1
	case systemKW < mediumSystemKW:
		return 24, 2
	default:
		return 48, 4
	}
}

// Size selects a voltage topology, standard unit size and series/parallel
// layout for the required backup energy. A dodOverride <= 0 uses the
// chemistry default. Unit sizes round up to the next standard size; the
// returned capacities are recomputed from the chosen units and never fall
// below the requirement.
func Size(backupKWH float64, chem types.BatteryChemistry, dodOverride, systemKW float64) (types.BatterySpec, error) {
	if !chem.Valid() {
		return types.BatterySpec{}, fmt.Errorf("unsupported battery chemistry %q", chem)
	}
	if backupKWH <= 0 {
		return types.BatterySpec{}, fmt.Errorf("non-positive backup energy %v kWh", backupKWH)
	}

	dod := dodOverride
	if dod <= 0 {
		dod = DefaultDoD(chem)
	}
	if dod > 1 {
		return types.BatterySpec{}, fmt.Errorf("depth of discharge %v out of range", dod)
	}

	voltage, series := systemVoltage(systemKW)
	totalKWH := backupKWH / dod

	spec := types.BatterySpec{
		Chemistry:         chem,
		RequiredBackupKWH: backupKWH,
		DepthOfDischarge:  dod,
		SystemVoltage:     voltage,
		SeriesCount:       series,
	}

	if chem == types.BatteryLithium && totalKWH >= kwhPackThreshold {
		sizeKWHPacks(&spec, totalKWH)
	} else {
		sizes := ahSizesLeadAcid
		if chem == types.BatteryLithium {
			sizes = ahSizesLithium
		}
		sizeAhUnits(&spec, totalKWH, sizes)
	}

	spec.TotalUnits = spec.SeriesCount * spec.ParallelCount
	spec.TotalCapacityKWH = spec.UnitKWH * float64(spec.TotalUnits)
	spec.UsableCapacityKWH = spec.TotalCapacityKWH * spec.DepthOfDischarge
	spec.Configuration = configLabel(spec.ParallelCount, spec.SeriesCount)
	return spec, nil
}

// sizeKWHPacks lays out kWh-rated lithium packs: the smallest standard pack
// that covers the per-string share, parallel strings by ceiling division.
func sizeKWHPacks(spec *types.BatterySpec, totalKWH float64) {
	perUnit := totalKWH / float64(spec.SeriesCount)
	unitKWH := kwhPackSizes[len(kwhPackSizes)-1]
	for _, s := range kwhPackSizes {
		if s >= perUnit {
			unitKWH = s
			break
		}
	}

	stringKWH := unitKWH * float64(spec.SeriesCount)
	spec.ParallelCount = int(math.Ceil(totalKWH / stringKWH))
	if spec.ParallelCount < 1 {
		spec.ParallelCount = 1
	}

	spec.KWHRated = true
	spec.UnitKWH = unitKWH
	spec.UnitVoltage = spec.SystemVoltage
	// equivalent amp-hour rating at bus voltage, for display
	spec.UnitAh = int(unitKWH * 1000 / float64(spec.SystemVoltage))
}

// sizeAhUnits lays out 12 V amp-hour units. The requirement is expressed in
// amp-hours at the bus voltage so that series stacking of 12 V cells is
// already accounted for; parallel strings then follow by ceiling division.
func sizeAhUnits(spec *types.BatterySpec, totalKWH float64, sizes []int) {
	requiredAh := totalKWH * 1000 / float64(spec.SystemVoltage)

	unitAh := sizes[len(sizes)-1]
	for _, s := range sizes {
		if float64(s) >= requiredAh {
			unitAh = s
			break
		}
	}

	spec.ParallelCount = int(math.Ceil(requiredAh / float64(unitAh)))
	if spec.ParallelCount < 1 {
		spec.ParallelCount = 1
	}

	spec.UnitVoltage = ahUnitVoltage
	spec.UnitAh = unitAh
	spec.UnitKWH = float64(unitAh) * ahUnitVoltage / 1000
}

func configLabel(parallel, series int) string {
	if parallel > 1 {
		return fmt.Sprintf("%dP%dS", parallel, series)
	}
	return fmt.Sprintf("%dS", series)
}

// Kenyan market battery pricing (KSh per kWh of rated capacity).
const (
	lithiumCostPerKWH  = 50000
	leadAcidCostPerKWH = 20000

	lithiumCycleLife  = 6000
	leadAcidCycleLife = 1500

	lithiumWarrantyYears  = 10
	leadAcidWarrantyYears = 3
)

// Cost prices the sized bank at a flat per-kWh market rate.
func Cost(spec types.BatterySpec) types.BatteryCost {
	cost := types.BatteryCost{
		CostPerKWH:    leadAcidCostPerKWH,
		CycleLife:     leadAcidCycleLife,
		WarrantyYears: leadAcidWarrantyYears,
	}
	if spec.Chemistry == types.BatteryLithium {
		cost = types.BatteryCost{
			CostPerKWH:    lithiumCostPerKWH,
			CycleLife:     lithiumCycleLife,
			WarrantyYears: lithiumWarrantyYears,
		}
	}
	cost.InitialCostKSH = spec.TotalCapacityKWH * cost.CostPerKWH
	return cost
}

// Annual maintenance as a fraction of the bank's initial cost.
const (
	lithiumMaintenanceRate  = 0.005
	leadAcidMaintenanceRate = 0.02
)

// Lifecycle computes the total cost of ownership over the horizon, including
// replacements (each one 10% cheaper than the last purchase) and annual
// maintenance, plus a levelized cost per kWh cycled.
func Lifecycle(spec types.BatterySpec, cost types.BatteryCost, dailyCycles float64, years int) types.BatteryLifecycle {
	totalCycles := dailyCycles * 365 * float64(years)

	replacements := 0
	if cost.CycleLife > 0 {
		replacements = int(totalCycles / float64(cost.CycleLife))
	}

	var replacementCost float64
	for i := 1; i <= replacements; i++ {
		replacementCost += cost.InitialCostKSH * math.Pow(0.9, float64(i))
	}

	maintenanceRate := leadAcidMaintenanceRate
	if spec.Chemistry == types.BatteryLithium {
		maintenanceRate = lithiumMaintenanceRate
	}
	maintenance := cost.InitialCostKSH * maintenanceRate * float64(years)

	total := cost.InitialCostKSH + replacementCost + maintenance

	var levelized float64
	if cycled := spec.UsableCapacityKWH * totalCycles; cycled > 0 {
		levelized = total / cycled
	}

	lc := types.BatteryLifecycle{
		InitialCostKSH:     cost.InitialCostKSH,
		ReplacementsNeeded: replacements,
		ReplacementCostKSH: replacementCost,
		MaintenanceCostKSH: maintenance,
		TotalCostKSH:       total,
		LevelizedKSHPerKWH: levelized,
	}
	if years > 0 {
		lc.CostPerYearKSH = total / float64(years)
	}
	return lc
}

// Plan sizes, prices and lifecycles one chemistry in a single call.
func Plan(backupKWH float64, chem types.BatteryChemistry, dodOverride, systemKW, dailyCycles float64, years int) (types.BatteryPlan, error) {
	spec, err := Size(backupKWH, chem, dodOverride, systemKW)
	if err != nil {
		return types.BatteryPlan{}, err
	}
	cost := Cost(spec)
	return types.BatteryPlan{
		Spec:      spec,
		Cost:      cost,
		Lifecycle: Lifecycle(spec, cost, dailyCycles, years),
	}, nil
}

// Comparison puts lithium and lead-acid side by side over the same horizon.
type Comparison struct {
	Lithium  types.BatteryPlan `json:"lithium"`
	LeadAcid types.BatteryPlan `json:"leadAcid"`

	// SavingsWithLithiumKSH is lead-acid lifetime cost minus lithium's;
	// positive means lithium wins despite the higher upfront price.
	SavingsWithLithiumKSH float64                `json:"savingsWithLithiumKSH"`
	CheaperLifetime       types.BatteryChemistry `json:"cheaperLifetime"`
}

// Compare builds both chemistry plans for the same backup requirement.
func Compare(backupKWH, systemKW, dailyCycles float64, years int) (Comparison, error) {
	lithium, err := Plan(backupKWH, types.BatteryLithium, 0, systemKW, dailyCycles, years)
	if err != nil {
		return Comparison{}, err
	}
	leadAcid, err := Plan(backupKWH, types.BatteryLeadAcid, 0, systemKW, dailyCycles, years)
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{
		Lithium:               lithium,
		LeadAcid:              leadAcid,
		SavingsWithLithiumKSH: leadAcid.Lifecycle.TotalCostKSH - lithium.Lifecycle.TotalCostKSH,
		CheaperLifetime:       types.BatteryLithium,
	}
	if leadAcid.Lifecycle.TotalCostKSH < lithium.Lifecycle.TotalCostKSH {
		cmp.CheaperLifetime = types.BatteryLeadAcid
	}
	return cmp, nil
}
