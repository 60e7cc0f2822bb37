package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juasmart/juasmart/pkg/battery"
	"github.com/juasmart/juasmart/pkg/load"
	"github.com/juasmart/juasmart/pkg/refdata"
	"github.com/juasmart/juasmart/pkg/sizing"
	"github.com/juasmart/juasmart/pkg/types"
)

func TestHandleTariff(t *testing.T) {
	srv := newTestServer(nil, nil)
	handler := srv.setupHandler()

	t.Run("Bills Against Loaded Schedule", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/tariff", tariffRequest{MonthlyKWH: 60})
		require.Equal(t, http.StatusOK, w.Code)

		res := decodeBody[types.TariffResult](t, w)
		assert.Equal(t, "Ordinary 1", res.Category)
		assert.InDelta(t, 987.0, res.BaseCostKSH, 0.001)
		assert.InDelta(t, 330.0, res.PassThroughCostKSH, 0.001)
		assert.InDelta(t, 1527.72, res.TotalCostKSH, 0.001)
	})

	t.Run("Negative Consumption", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/tariff", tariffRequest{MonthlyKWH: -5})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Schedule Degrades", func(t *testing.T) {
		degraded := newTestServer(nil, nil)
		degraded.refdata = refdata.NewStore(refdata.Bundle{})

		w := doJSON(t, degraded.setupHandler(), "POST", "/api/tariff", tariffRequest{MonthlyKWH: 60})
		require.Equal(t, http.StatusOK, w.Code)

		res := decodeBody[types.TariffResult](t, w)
		assert.Equal(t, types.TariffCategoryUnknown, res.Category)
		assert.Zero(t, res.TotalCostKSH)
	})
}

func TestHandleLoad(t *testing.T) {
	srv := newTestServer(nil, nil)
	handler := srv.setupHandler()

	w := doJSON(t, handler, "POST", "/api/load", loadRequest{
		Appliances: map[string]int{"Fridge": 1, "TV": 1},
	})
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeBody[load.Result](t, w)
	// fridge 150W*24h + tv 80W*4h = 3.6 + 0.32 kWh/day
	assert.InDelta(t, 3.92, res.DailyKWH, 0.001)
	assert.InDelta(t, 3.92*types.DaysPerMonth, res.MonthlyKWH, 0.01)
	assert.Len(t, res.Items, 2)
}

func TestHandleEstimate(t *testing.T) {
	srv := newTestServer(nil, nil)
	handler := srv.setupHandler()

	t.Run("Small Household In Nairobi", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/estimate", estimateRequest{
			County:     "Nairobi",
			MonthlyKWH: 60,
		})
		require.Equal(t, http.StatusOK, w.Code)

		est := decodeBody[types.Estimate](t, w)
		assert.Equal(t, 2, est.Breakdown.PanelCount)
		assert.InDelta(t, 0.9, est.Breakdown.ActualSystemKW, 0.001)
		assert.InDelta(t, 1.5, est.Breakdown.InverterCapacityKW, 0.001)
		assert.InDelta(t, 115460.0, est.Breakdown.TotalKSH, 0.01)
		assert.Greater(t, est.CoveragePercent, 100.0)
		assert.False(t, est.Finance.PaybackYears.Unbounded())
	})

	t.Run("Missing Consumption", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/estimate", estimateRequest{County: "Nairobi"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleCompare(t *testing.T) {
	srv := newTestServer(nil, nil)
	handler := srv.setupHandler()

	w := doJSON(t, handler, "POST", "/api/compare", estimateRequest{
		County:     "Nairobi",
		MonthlyKWH: 250,
	})
	require.Equal(t, http.StatusOK, w.Code)

	cmp := decodeBody[sizing.Comparison](t, w)
	assert.Less(t, cmp.Conservative.Breakdown.TotalKSH, cmp.Recommended.Breakdown.TotalKSH)
	assert.Less(t, cmp.Recommended.Breakdown.TotalKSH, cmp.Aggressive.Breakdown.TotalKSH)
	assert.Less(t, cmp.Conservative.CoveragePercent, cmp.Aggressive.CoveragePercent)
}

func TestHandleBattery(t *testing.T) {
	srv := newTestServer(nil, nil)
	handler := srv.setupHandler()

	t.Run("Lithium Plan", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/battery", batteryRequest{
			BackupKWH: 3,
			Chemistry: types.BatteryLithium,
			SystemKW:  1,
		})
		require.Equal(t, http.StatusOK, w.Code)

		plan := decodeBody[types.BatteryPlan](t, w)
		assert.Equal(t, types.BatteryLithium, plan.Spec.Chemistry)
		assert.InDelta(t, 5.12, plan.Spec.UnitKWH, 0.001)
		assert.Equal(t, 1, plan.Spec.TotalUnits)
		assert.InDelta(t, 5.12*50000, plan.Cost.InitialCostKSH, 0.01)
	})

	t.Run("Derives Backup From Consumption", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/battery", batteryRequest{
			DailyConsumptionKWH: 12,
			BackupHours:         8,
			SystemType:          types.SystemHybrid,
			Chemistry:           types.BatteryLeadAcid,
			SystemKW:            2,
		})
		require.Equal(t, http.StatusOK, w.Code)

		plan := decodeBody[types.BatteryPlan](t, w)
		// 12/24 * 8 = 4 kWh backup at 50% DoD
		assert.InDelta(t, 4.0, plan.Spec.RequiredBackupKWH, 0.001)
		assert.GreaterOrEqual(t, plan.Spec.TotalCapacityKWH, 8.0)
	})

	t.Run("Chemistry Comparison", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/battery", batteryRequest{
			BackupKWH: 5,
			SystemKW:  3,
			Compare:   true,
		})
		require.Equal(t, http.StatusOK, w.Code)

		cmp := decodeBody[battery.Comparison](t, w)
		assert.Equal(t, types.BatteryLithium, cmp.Lithium.Spec.Chemistry)
		assert.Equal(t, types.BatteryLeadAcid, cmp.LeadAcid.Spec.Chemistry)
		assert.NotZero(t, cmp.CheaperLifetime)
	})

	t.Run("No Backup Requirement", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/battery", batteryRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleAssess(t *testing.T) {
	srv := newTestServer(nil, nil)
	handler := srv.setupHandler()

	t.Run("Hybrid With Backup", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/assess", assessRequest{
			County:      "Nairobi",
			MonthlyKWH:  60,
			SystemType:  types.SystemHybrid,
			BackupHours: 8,
		})
		require.Equal(t, http.StatusOK, w.Code)

		a := decodeBody[types.Assessment](t, w)
		assert.Equal(t, "Nairobi", a.County)
		assert.InDelta(t, 5.2, a.GHIKWHM2Day, 0.001)
		assert.Equal(t, "Ordinary 1", a.Tariff.Category)
		assert.Equal(t, 2, a.Estimate.Breakdown.PanelCount)
		require.NotNil(t, a.Battery)
		assert.Equal(t, types.BatteryLithium, a.Battery.Spec.Chemistry)
		// battery cost flows into the financial projection
		assert.InDelta(t, a.Battery.Cost.InitialCostKSH, a.Estimate.Finance.BatteryCostKSH, 0.01)
		require.NotNil(t, a.Validation)
		assert.Len(t, a.Validation.Checks, 4)
		assert.Greater(t, a.Validation.OverallConfidence, 0.0)
		assert.NotEmpty(t, a.Validation.Level)
		assert.False(t, a.CreatedAt.IsZero())
	})

	t.Run("Grid Tied Has No Battery", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/assess", assessRequest{
			County:     "Nairobi",
			MonthlyKWH: 60,
			SystemType: types.SystemGridTied,
		})
		require.Equal(t, http.StatusOK, w.Code)

		a := decodeBody[types.Assessment](t, w)
		assert.Nil(t, a.Battery)
		assert.Zero(t, a.Estimate.Finance.BatteryCostKSH)
	})

	t.Run("Appliances Fill In Consumption", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/assess", assessRequest{
			County:     "Kisumu",
			Appliances: map[string]int{"Fridge": 1},
			SystemType: types.SystemGridTied,
		})
		require.Equal(t, http.StatusOK, w.Code)

		a := decodeBody[types.Assessment](t, w)
		assert.InDelta(t, 3.6*types.DaysPerMonth, a.Profile.MonthlyKWH, 0.01)
	})

	t.Run("No Consumption", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/assess", assessRequest{County: "Nairobi"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "monthly consumption required")
	})

	t.Run("Off Grid Defaults To Autonomy Days", func(t *testing.T) {
		w := doJSON(t, handler, "POST", "/api/assess", assessRequest{
			County:     "Turkana",
			MonthlyKWH: 150,
			SystemType: types.SystemOffGrid,
		})
		require.Equal(t, http.StatusOK, w.Code)

		a := decodeBody[types.Assessment](t, w)
		require.NotNil(t, a.Battery)
		daily := 150 / types.DaysPerMonth
		assert.InDelta(t, daily*battery.OffGridAutonomyDays, a.Battery.Spec.RequiredBackupKWH, 0.001)
	})
}
