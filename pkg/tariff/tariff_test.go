package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juasmart/juasmart/pkg/types"
)

func epraSchedule() types.TariffSchedule {
	return types.TariffSchedule{
		Tiers: []types.TariffTier{
			{Name: "Lifeline", MinKWH: 0, MaxKWH: 30, BaseRateKSHPerKWH: 12.23},
			{Name: "Ordinary 1", MinKWH: 31, MaxKWH: 100, BaseRateKSHPerKWH: 16.45},
			{Name: "Ordinary 2", MinKWH: 101, MaxKWH: 0, BaseRateKSHPerKWH: 19.08},
		},
		PassThroughKSHPerKWH: 5.50,
		VATRate:              0.16,
	}
}

func TestBillLifeline(t *testing.T) {
	res, err := Bill(epraSchedule(), 25)
	require.NoError(t, err)

	assert.Equal(t, "Lifeline", res.Category)
	assert.InDelta(t, 25*12.23, res.BaseCostKSH, 0.001)
	require.Len(t, res.Tiers, 1)
	assert.Equal(t, "Lifeline", res.Tiers[0].Tier)
	assert.InDelta(t, 25.0, res.Tiers[0].KWH, 0.001)
}

func TestBillCategorical(t *testing.T) {
	// 60 kWh lands in Ordinary 1 and all units are billed at that rate
	res, err := Bill(epraSchedule(), 60)
	require.NoError(t, err)

	assert.Equal(t, "Ordinary 1", res.Category)
	assert.InDelta(t, 60*16.45, res.BaseCostKSH, 0.001)
	assert.InDelta(t, 60*5.50, res.PassThroughCostKSH, 0.001)
	assert.InDelta(t, (987+330)*0.16, res.VATKSH, 0.001)
	assert.InDelta(t, 1527.72, res.TotalCostKSH, 0.01)
	assert.InDelta(t, 25.50, res.EffectiveRateKSHPerKWH, 0.05)
}

func TestBillHighestTierOpenEnded(t *testing.T) {
	res, err := Bill(epraSchedule(), 250)
	require.NoError(t, err)

	assert.Equal(t, "Ordinary 2", res.Category)
	assert.InDelta(t, 250*19.08, res.BaseCostKSH, 0.001)
}

func TestBillTierBoundaries(t *testing.T) {
	s := epraSchedule()

	// exactly at the top of the lifeline band
	res, err := Bill(s, 30)
	require.NoError(t, err)
	assert.Equal(t, "Lifeline", res.Category)

	// exactly at the bottom of the next band
	res, err = Bill(s, 31)
	require.NoError(t, err)
	assert.Equal(t, "Ordinary 1", res.Category)

	res, err = Bill(s, 101)
	require.NoError(t, err)
	assert.Equal(t, "Ordinary 2", res.Category)
}

func TestBillTierQuantitiesSumToConsumption(t *testing.T) {
	s := epraSchedule()
	for _, kwh := range []float64{1, 29.5, 30, 75, 100, 250.25} {
		res, err := Bill(s, kwh)
		require.NoError(t, err)

		var sum float64
		for _, tb := range res.Tiers {
			sum += tb.KWH
		}
		assert.InDelta(t, kwh, sum, 0.0001, "tier quantities should sum to consumption for %v kWh", kwh)
	}
}

func TestBillZeroConsumption(t *testing.T) {
	res, err := Bill(epraSchedule(), 0)
	require.NoError(t, err)

	assert.Equal(t, types.TariffCategoryUnknown, res.Category)
	assert.Zero(t, res.TotalCostKSH)
	assert.Zero(t, res.EffectiveRateKSHPerKWH)
	assert.Empty(t, res.Tiers)
}

func TestBillNegativeConsumption(t *testing.T) {
	_, err := Bill(epraSchedule(), -5)
	assert.Error(t, err)
}

func TestBillMalformedSchedule(t *testing.T) {
	s := epraSchedule()
	s.Tiers[1].MinKWH = 0 // out of order

	_, err := Bill(s, 60)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMalformedReferenceData)
}

func TestDegraded(t *testing.T) {
	res := Degraded(42)
	assert.Equal(t, types.TariffCategoryUnknown, res.Category)
	assert.InDelta(t, 42.0, res.ConsumptionKWH, 0.001)
	assert.Zero(t, res.TotalCostKSH)
	assert.Zero(t, res.BaseCostKSH)
}
