// Package load estimates monthly household consumption from appliance
// inventories.
package load

import (
	"sort"

	"github.com/juasmart/juasmart/pkg/types"
)

// WaterPump is the one appliance whose daily duty callers commonly override
// (borehole pumps run on level switches, not schedules).
const WaterPump = "Water Pump"

// applianceSpecs is the built-in rated-power/daily-duty table for common
// Kenyan household appliances.
var applianceSpecs = map[string]types.ApplianceSpec{
	"Fridge":          {PowerWatts: 150, DailyHours: 24},
	"Freezer":         {PowerWatts: 150, DailyHours: 24},
	"TV":              {PowerWatts: 80, DailyHours: 4},
	"LED Lights":      {PowerWatts: 10, DailyHours: 5},
	"Laptop":          {PowerWatts: 60, DailyHours: 6},
	"Router":          {PowerWatts: 10, DailyHours: 24},
	"Phone Chargers":  {PowerWatts: 30, DailyHours: 3},
	WaterPump:         {PowerWatts: 500, DailyHours: 2},
	"Air Conditioner": {PowerWatts: 1500, DailyHours: 8},
	"Iron":            {PowerWatts: 1000, DailyHours: 0.3},
	"Washing Machine": {PowerWatts: 500, DailyHours: 0.4},
	"Microwave":       {PowerWatts: 800, DailyHours: 0.5},
	"Electric Stove":  {PowerWatts: 2000, DailyHours: 1},
	"Water Heater":    {PowerWatts: 1500, DailyHours: 0.5},
}

// Specs returns a copy of the built-in appliance table.
func Specs() map[string]types.ApplianceSpec {
	out := make(map[string]types.ApplianceSpec, len(applianceSpecs))
	for name, spec := range applianceSpecs {
		out[name] = spec
	}
	return out
}

// Item is one appliance's contribution to the estimate.
type Item struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	PowerWatts float64 `json:"powerWatts"`
	DailyHours float64 `json:"dailyHours"`
	DailyKWH   float64 `json:"dailyKWH"`
}

// Result is an itemized consumption estimate.
type Result struct {
	Items      []Item  `json:"items,omitempty"`
	DailyKWH   float64 `json:"dailyKWH"`
	MonthlyKWH float64 `json:"monthlyKWH"`
}

// Estimate converts appliance counts plus any custom entries into a monthly
// consumption figure. Unknown appliance names are ignored; callers with
// unlisted appliances supply them as custom entries instead. A positive
// pumpHours overrides the water pump's default daily duty.
func Estimate(appliances map[string]int, custom []types.CustomAppliance, pumpHours float64) Result {
	var res Result

	names := make([]string, 0, len(appliances))
	for name := range appliances {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		count := appliances[name]
		spec, ok := applianceSpecs[name]
		if !ok || count <= 0 {
			continue
		}
		hours := spec.DailyHours
		if name == WaterPump && pumpHours > 0 {
			hours = pumpHours
		}
		daily := spec.PowerWatts * hours * float64(count) / 1000
		res.Items = append(res.Items, Item{
			Name:       name,
			Count:      count,
			PowerWatts: spec.PowerWatts,
			DailyHours: hours,
			DailyKWH:   daily,
		})
		res.DailyKWH += daily
	}

	for _, c := range custom {
		if c.Count <= 0 || c.PowerWatts <= 0 || c.DailyHours <= 0 {
			continue
		}
		daily := c.PowerWatts * c.DailyHours * float64(c.Count) / 1000
		res.Items = append(res.Items, Item{
			Name:       c.Name,
			Count:      c.Count,
			PowerWatts: c.PowerWatts,
			DailyHours: c.DailyHours,
			DailyKWH:   daily,
		})
		res.DailyKWH += daily
	}

	res.MonthlyKWH = res.DailyKWH * types.DaysPerMonth
	return res
}
