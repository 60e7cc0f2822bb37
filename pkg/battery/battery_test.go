package battery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juasmart/juasmart/pkg/types"
)

func TestBackupRequirement(t *testing.T) {
	// hybrid: hourly consumption times backup hours
	assert.InDelta(t, 12.0/24*6, BackupRequirement(12, 6, types.SystemHybrid), 0.0001)

	// off-grid: two full autonomy days, requested hours ignored
	assert.InDelta(t, 24.0, BackupRequirement(12, 6, types.SystemOffGrid), 0.0001)
}

func TestSizeLithiumKWHPacks(t *testing.T) {
	spec, err := Size(3, types.BatteryLithium, 0, 0)
	require.NoError(t, err)

	assert.True(t, spec.KWHRated)
	assert.Equal(t, 12, spec.SystemVoltage)
	assert.Equal(t, 1, spec.SeriesCount)
	assert.Equal(t, 1, spec.ParallelCount)
	assert.Equal(t, 1, spec.TotalUnits)
	// 3/0.9 = 3.33 kWh required, smallest standard pack is 5.12
	assert.InDelta(t, 5.12, spec.UnitKWH, 0.001)
	assert.InDelta(t, 5.12, spec.TotalCapacityKWH, 0.001)
	assert.InDelta(t, 5.12*0.9, spec.UsableCapacityKWH, 0.001)
	assert.Equal(t, "1S", spec.Configuration)
}

func TestSizeLithiumLargeSystem(t *testing.T) {
	// 20 kWh backup on a 6 kW array: 48 V bus, 4 packs in series
	spec, err := Size(20, types.BatteryLithium, 0, 6)
	require.NoError(t, err)

	assert.Equal(t, 48, spec.SystemVoltage)
	assert.Equal(t, 4, spec.SeriesCount)
	assert.True(t, spec.KWHRated)
	assert.Equal(t, spec.SeriesCount*spec.ParallelCount, spec.TotalUnits)
	assert.GreaterOrEqual(t, spec.TotalCapacityKWH, 20/0.9)
	assert.InDelta(t, spec.UnitKWH*float64(spec.TotalUnits), spec.TotalCapacityKWH, 0.0001)
}

func TestSizeLithiumSmallAhUnits(t *testing.T) {
	// 1 kWh backup stays below the pack threshold: 12 V amp-hour units
	spec, err := Size(1, types.BatteryLithium, 0, 0)
	require.NoError(t, err)

	assert.False(t, spec.KWHRated)
	assert.Equal(t, 12, spec.UnitVoltage)
	// 1/0.9 = 1.11 kWh at 12 V = 92.6 Ah, next standard size is 100
	assert.Equal(t, 100, spec.UnitAh)
	assert.Equal(t, 1, spec.ParallelCount)
}

func TestSizeLeadAcidAlways12VUnits(t *testing.T) {
	for _, systemKW := range []float64{0.5, 3, 8} {
		spec, err := Size(4, types.BatteryLeadAcid, 0, systemKW)
		require.NoError(t, err)
		assert.Equal(t, 12, spec.UnitVoltage, "system %v kW", systemKW)
		assert.InDelta(t, 0.5, spec.DepthOfDischarge, 0.0001)
	}
}

func TestSizeLeadAcidParallelStrings(t *testing.T) {
	// 2 kWh backup at DoD 0.5 needs 4 kWh total; at 12 V that is 333 Ah,
	// beyond the largest 200 Ah unit, so two parallel strings
	spec, err := Size(2, types.BatteryLeadAcid, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 200, spec.UnitAh)
	assert.Equal(t, 2, spec.ParallelCount)
	assert.Equal(t, 2, spec.TotalUnits)
	assert.InDelta(t, 200*12*2/1000.0, spec.TotalCapacityKWH, 0.001)
	assert.Equal(t, "2P1S", spec.Configuration)
}

func TestSizeExactMultipleNoExtraString(t *testing.T) {
	// requirement lands exactly on one 200 Ah unit: one string, not two
	spec, err := Size(1.2, types.BatteryLeadAcid, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 200, spec.UnitAh)
	assert.Equal(t, 1, spec.ParallelCount)
}

func TestSizeSeriesFactorInCapacity(t *testing.T) {
	// 24 V bus: required Ah is computed at bus voltage and the two series
	// units both count toward bank energy
	spec, err := Size(4, types.BatteryGel, 0, 3)
	require.NoError(t, err)

	assert.Equal(t, 24, spec.SystemVoltage)
	assert.Equal(t, 2, spec.SeriesCount)
	assert.Equal(t, spec.SeriesCount*spec.ParallelCount, spec.TotalUnits)
	assert.InDelta(t, spec.UnitKWH*float64(spec.TotalUnits), spec.TotalCapacityKWH, 0.0001)
	assert.GreaterOrEqual(t, spec.TotalCapacityKWH, 4/0.6)
	assert.InDelta(t, spec.TotalCapacityKWH*spec.DepthOfDischarge, spec.UsableCapacityKWH, 0.0001)
}

func TestSizeDoDOverride(t *testing.T) {
	spec, err := Size(3, types.BatteryLithium, 0.8, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, spec.DepthOfDischarge, 0.0001)

	_, err = Size(3, types.BatteryLithium, 1.5, 0)
	assert.Error(t, err)
}

func TestSizeInvalidInputs(t *testing.T) {
	_, err := Size(3, "Sodium", 0, 0)
	assert.Error(t, err)

	_, err = Size(0, types.BatteryLithium, 0, 0)
	assert.Error(t, err)
}

func TestCost(t *testing.T) {
	spec, err := Size(3, types.BatteryLithium, 0, 0)
	require.NoError(t, err)

	cost := Cost(spec)
	assert.Equal(t, float64(50000), cost.CostPerKWH)
	assert.Equal(t, 6000, cost.CycleLife)
	assert.Equal(t, 10, cost.WarrantyYears)
	assert.InDelta(t, spec.TotalCapacityKWH*50000, cost.InitialCostKSH, 0.01)

	spec, err = Size(3, types.BatteryGel, 0, 0)
	require.NoError(t, err)
	cost = Cost(spec)
	assert.Equal(t, float64(20000), cost.CostPerKWH)
	assert.Equal(t, 1500, cost.CycleLife)
}

func TestLifecycle(t *testing.T) {
	spec, err := Size(4, types.BatteryLeadAcid, 0, 0)
	require.NoError(t, err)
	cost := Cost(spec)

	lc := Lifecycle(spec, cost, 1, 25)

	// 9125 cycles over 25 years against a 1500-cycle life
	assert.Equal(t, 6, lc.ReplacementsNeeded)

	// each replacement is 10% cheaper than the previous purchase
	var wantReplacement float64
	step := cost.InitialCostKSH
	for i := 0; i < 6; i++ {
		step *= 0.9
		wantReplacement += step
	}
	assert.InDelta(t, wantReplacement, lc.ReplacementCostKSH, 0.01)

	assert.InDelta(t, cost.InitialCostKSH*0.02*25, lc.MaintenanceCostKSH, 0.01)
	assert.InDelta(t, lc.InitialCostKSH+lc.ReplacementCostKSH+lc.MaintenanceCostKSH, lc.TotalCostKSH, 0.01)
	assert.InDelta(t, lc.TotalCostKSH/25, lc.CostPerYearKSH, 0.01)
	assert.Greater(t, lc.LevelizedKSHPerKWH, 0.0)
}

func TestLifecycleLithiumNoReplacements(t *testing.T) {
	spec, err := Size(4, types.BatteryLithium, 0, 0)
	require.NoError(t, err)
	cost := Cost(spec)

	// 6000-cycle lithium outlasts 15 years of daily cycling
	lc := Lifecycle(spec, cost, 1, 15)
	assert.Equal(t, 0, lc.ReplacementsNeeded)
	assert.Zero(t, lc.ReplacementCostKSH)
	assert.InDelta(t, cost.InitialCostKSH*0.005*15, lc.MaintenanceCostKSH, 0.01)
}

func TestCompare(t *testing.T) {
	cmp, err := Compare(5, 2, 1, 25)
	require.NoError(t, err)

	assert.Equal(t, types.BatteryLithium, cmp.Lithium.Spec.Chemistry)
	assert.Equal(t, types.BatteryLeadAcid, cmp.LeadAcid.Spec.Chemistry)
	// lead-acid replacements make lithium cheaper over 25 years
	assert.Greater(t, cmp.SavingsWithLithiumKSH, 0.0)
	assert.Equal(t, types.BatteryLithium, cmp.CheaperLifetime)
	assert.InDelta(t, cmp.LeadAcid.Lifecycle.TotalCostKSH-cmp.Lithium.Lifecycle.TotalCostKSH,
		cmp.SavingsWithLithiumKSH, 0.01)
}
