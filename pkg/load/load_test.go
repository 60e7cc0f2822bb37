package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juasmart/juasmart/pkg/types"
)

func TestEstimateSingleAppliance(t *testing.T) {
	res := Estimate(map[string]int{"Fridge": 1}, nil, 0)

	// 150W × 24h = 3.6 kWh/day
	assert.InDelta(t, 3.6, res.DailyKWH, 0.001)
	assert.InDelta(t, 3.6*types.DaysPerMonth, res.MonthlyKWH, 0.001)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Fridge", res.Items[0].Name)
}

func TestEstimateMultipleCounts(t *testing.T) {
	res := Estimate(map[string]int{
		"LED Lights": 8,
		"TV":         1,
	}, nil, 0)

	// 8 × 10W × 5h = 0.4, plus 80W × 4h = 0.32
	assert.InDelta(t, 0.72, res.DailyKWH, 0.001)
}

func TestEstimateUnknownApplianceIgnored(t *testing.T) {
	res := Estimate(map[string]int{
		"Fridge":     1,
		"Teleporter": 3,
	}, nil, 0)

	assert.InDelta(t, 3.6, res.DailyKWH, 0.001)
	assert.Len(t, res.Items, 1)
}

func TestEstimateWaterPumpOverride(t *testing.T) {
	res := Estimate(map[string]int{WaterPump: 1}, nil, 4)

	// 500W × 4h override
	assert.InDelta(t, 2.0, res.DailyKWH, 0.001)
	require.Len(t, res.Items, 1)
	assert.InDelta(t, 4.0, res.Items[0].DailyHours, 0.001)
}

func TestEstimateCustomAppliances(t *testing.T) {
	custom := []types.CustomAppliance{
		{Name: "Incubator", PowerWatts: 200, DailyHours: 12, Count: 2},
		{Name: "Broken", PowerWatts: 0, DailyHours: 5, Count: 1},
	}
	res := Estimate(map[string]int{"Router": 1}, custom, 0)

	// router 10W × 24h = 0.24, incubators 2 × 200W × 12h = 4.8,
	// zero-power entry ignored
	assert.InDelta(t, 5.04, res.DailyKWH, 0.001)
	assert.Len(t, res.Items, 2)
}

func TestEstimateEmpty(t *testing.T) {
	res := Estimate(nil, nil, 0)
	assert.Zero(t, res.DailyKWH)
	assert.Zero(t, res.MonthlyKWH)
	assert.Empty(t, res.Items)
}

func TestEstimateDeterministicOrder(t *testing.T) {
	appliances := map[string]int{"TV": 1, "Fridge": 1, "Router": 1}
	first := Estimate(appliances, nil, 0)
	second := Estimate(appliances, nil, 0)
	require.Equal(t, first.Items, second.Items)
	assert.Equal(t, "Fridge", first.Items[0].Name)
}

func TestSpecsReturnsCopy(t *testing.T) {
	specs := Specs()
	specs["Fridge"] = types.ApplianceSpec{PowerWatts: 1, DailyHours: 1}

	res := Estimate(map[string]int{"Fridge": 1}, nil, 0)
	assert.InDelta(t, 3.6, res.DailyKWH, 0.001, "mutating the returned table should not affect estimates")
}
