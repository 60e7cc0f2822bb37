package refdata

import "github.com/juasmart/juasmart/pkg/types"

// Default returns the built-in reference bundle: the EPRA 2023-2026 domestic
// schedule, a representative Kenyan equipment catalog, baseline modeling
// assumptions and county irradiance averages. The seed tool uploads this
// bundle; deployments normally load the maintained JSON files instead.
func Default() Bundle {
	tariff := &types.TariffSchedule{
		Tiers: []types.TariffTier{
			{Name: "Lifeline", MinKWH: 0, MaxKWH: 30, BaseRateKSHPerKWH: 12.23},
			{Name: "Ordinary 1", MinKWH: 31, MaxKWH: 100, BaseRateKSHPerKWH: 16.45},
			{Name: "Ordinary 2", MinKWH: 101, MaxKWH: 0, BaseRateKSHPerKWH: 19.08},
		},
		PassThroughKSHPerKWH: 5.50,
		VATRate:              0.16,
	}

	catalog := &types.EquipmentCatalog{
		Panels: []types.PanelModel{
			{Brand: "Jinko", Model: "Tiger Neo 450W", WattageW: 450, PriceKSH: 15750},
			{Brand: "Canadian Solar", Model: "HiKu6 450W", WattageW: 450, PriceKSH: 16200},
			{Brand: "JA Solar", Model: "Deep Blue 3.0 450W", WattageW: 450, PriceKSH: 15300},
		},
		Inverters: []types.InverterModel{
			{Brand: "Growatt", Model: "SPF 1500TL", CapacityKW: 1.5, PriceKSH: 40000},
			{Brand: "Growatt", Model: "SPF 3000TL", CapacityKW: 3, PriceKSH: 75000},
			{Brand: "Must", Model: "PV1800 5K", CapacityKW: 5, PriceKSH: 115000},
			{Brand: "Deye", Model: "SUN-8K-SG", CapacityKW: 8, PriceKSH: 175000},
			{Brand: "Deye", Model: "SUN-10K-SG", CapacityKW: 10, PriceKSH: 210000},
		},
	}

	assumptions := &types.Assumptions{
		SystemLossesFraction:      0.15,
		DegradationRatePerYear:    0.008,
		InstallCostPerWattRange:   [2]float64{55, 150},
		GridEmissionFactorTPerMWH: 0.4087,
	}

	counties := []types.CountyIrradiance{
		{County: "Nairobi", AvgIrradianceKWHM2D: 5.2},
		{County: "Mombasa", AvgIrradianceKWHM2D: 5.6},
		{County: "Kisumu", AvgIrradianceKWHM2D: 5.4},
		{County: "Nakuru", AvgIrradianceKWHM2D: 5.3},
		{County: "Uasin Gishu", AvgIrradianceKWHM2D: 5.5},
		{County: "Machakos", AvgIrradianceKWHM2D: 5.7},
		{County: "Kiambu", AvgIrradianceKWHM2D: 5.1},
		{County: "Kajiado", AvgIrradianceKWHM2D: 5.8},
		{County: "Garissa", AvgIrradianceKWHM2D: 6.0},
		{County: "Turkana", AvgIrradianceKWHM2D: 6.2},
		{County: "Marsabit", AvgIrradianceKWHM2D: 6.1},
		{County: "Kitui", AvgIrradianceKWHM2D: 5.9},
		{County: "Kericho", AvgIrradianceKWHM2D: 4.9},
		{County: "Nyeri", AvgIrradianceKWHM2D: 5.0},
		{County: "Kilifi", AvgIrradianceKWHM2D: 5.5},
	}

	return Bundle{
		Tariff:      tariff,
		Catalog:     catalog,
		Assumptions: assumptions,
		Counties:    counties,
	}
}

// DefaultFiles renders the default bundle as reference files keyed by
// canonical name, in the same layout the parsers accept. Used by the seed
// tool.
func DefaultFiles() map[string][]byte {
	b := Default()

	tariffs := tariffFile{
		PassThrough: b.Tariff.PassThroughKSHPerKWH,
		VATRate:     b.Tariff.VATRate,
	}
	for _, t := range b.Tariff.Tiers {
		tariffs.Tariffs.Domestic = append(tariffs.Tariffs.Domestic, struct {
			Name     string     `json:"name"`
			RangeKWH [2]float64 `json:"range_kwh"`
			BaseRate float64    `json:"base_rate_ksh_per_kwh"`
		}{t.Name, [2]float64{t.MinKWH, t.MaxKWH}, t.BaseRateKSHPerKWH})
	}

	catalog := catalogFile{}
	for _, p := range b.Catalog.Panels {
		catalog.Panels = append(catalog.Panels, struct {
			Brand    string  `json:"brand"`
			Model    string  `json:"model"`
			WattageW int     `json:"wattage_w"`
			PriceKSH float64 `json:"price_ksh"`
		}{p.Brand, p.Model, p.WattageW, p.PriceKSH})
	}
	for _, inv := range b.Catalog.Inverters {
		catalog.Inverters = append(catalog.Inverters, struct {
			Brand      string  `json:"brand"`
			Model      string  `json:"model"`
			CapacityKW float64 `json:"capacity_kw"`
			PriceKSH   float64 `json:"price_ksh"`
		}{inv.Brand, inv.Model, inv.CapacityKW, inv.PriceKSH})
	}

	assumptions := assumptionsFile{
		SystemLossesPercent:       b.Assumptions.SystemLossesFraction,
		DegradationRatePerYear:    b.Assumptions.DegradationRatePerYear,
		InstallCostPerWattRange:   b.Assumptions.InstallCostPerWattRange,
		GridEmissionFactorTPerMWH: b.Assumptions.GridEmissionFactorTPerMWH,
	}

	counties := countiesFile{}
	for _, c := range b.Counties {
		counties.Counties = append(counties.Counties, struct {
			County        string  `json:"county"`
			AvgIrradiance float64 `json:"avg_irradiance_kwh_m2_day"`
		}{c.County, c.AvgIrradianceKWHM2D})
	}

	return map[string][]byte{
		FileTariffs:     mustJSON(tariffs),
		FileCatalog:     mustJSON(catalog),
		FileAssumptions: mustJSON(assumptions),
		FileCounties:    mustJSON(counties),
	}
}
