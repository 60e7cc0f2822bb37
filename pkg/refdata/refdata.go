// Package refdata loads and serves the reference tables the engines and the
// prompt builder consume: EPRA tariffs, the equipment catalog, baseline
// assumptions and the county irradiance table.
//
// A missing table degrades the features that need it (engines return zeroed
// results); a table that is present but unparseable is a hard error.
package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/levenlabs/go-lflag"

	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/types"
)

// Canonical reference file names, shared with the seed tool and the storage
// copies of the same data.
const (
	FileTariffs     = "epra_tariffs_2024_2026.json"
	FileCatalog     = "equipment_catalog.json"
	FileAssumptions = "baseline_assumptions.json"
	FileCounties    = "kenya_counties_irradiance.json"
)

// DefaultGHI is the irradiance assumed when a location is not in the county
// table. Most of Kenya sits near this figure.
const DefaultGHI = 5.2

// Bundle is one consistent snapshot of the reference tables. A nil pointer
// means that table is missing and dependent features run degraded.
type Bundle struct {
	Tariff      *types.TariffSchedule
	Catalog     *types.EquipmentCatalog
	Assumptions *types.Assumptions
	Counties    []types.CountyIrradiance
}

// Fetcher returns reference files keyed by canonical name from an alternate
// source (typically the storage layer).
type Fetcher func(ctx context.Context) (map[string][]byte, error)

// Store holds the current bundle and knows how to reload it.
type Store struct {
	mu         sync.RWMutex
	dir        string
	useDefault bool
	fetcher    Fetcher
	bundle     Bundle
}

// Configured sets up the reference-data store based on flags.
func Configured() *Store {
	dir := lflag.String("data-dir", "", "Directory containing reference data JSON files")
	useDefault := lflag.Bool("default-data", false, "Use built-in reference data instead of loading files")

	s := &Store{}
	lflag.Do(func() {
		s.dir = *dir
		s.useDefault = *useDefault
		if err := s.Reload(context.Background()); err != nil {
			panic(fmt.Sprintf("reference data load failed: %v", err))
		}
	})
	return s
}

// NewStore returns a store preloaded with the given bundle, bypassing flag
// configuration. Reload keeps serving the built-in defaults.
func NewStore(b Bundle) *Store {
	return &Store{useDefault: true, bundle: b}
}

// SetFetcher attaches an alternate source used when no data directory is
// configured. Takes effect on the next Reload.
func (s *Store) SetFetcher(f Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetcher = f
}

// Reload re-reads the reference tables from the configured source. Missing
// tables are logged and left nil; malformed tables fail the reload and keep
// the previous bundle.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	dir, useDefault, fetcher := s.dir, s.useDefault, s.fetcher
	s.mu.Unlock()

	var bundle Bundle
	var err error
	switch {
	case useDefault:
		bundle = Default()
	case dir != "":
		bundle, err = LoadDir(dir)
	case fetcher != nil:
		var files map[string][]byte
		files, err = fetcher(ctx)
		if err == nil {
			bundle, err = Parse(files)
		}
	default:
		return fmt.Errorf("%w: no data source configured", types.ErrMissingReferenceData)
	}
	if err != nil {
		return err
	}

	for name, ok := range map[string]bool{
		"tariffs":     bundle.Tariff != nil,
		"catalog":     bundle.Catalog != nil,
		"assumptions": bundle.Assumptions != nil,
		"counties":    len(bundle.Counties) > 0,
	} {
		if !ok {
			log.Ctx(ctx).Warn("reference table missing, dependent features degraded",
				"table", name)
		}
	}

	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()
	return nil
}

// Tariff returns the tariff schedule or ErrMissingReferenceData.
func (s *Store) Tariff() (types.TariffSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bundle.Tariff == nil {
		return types.TariffSchedule{}, fmt.Errorf("%w: tariff schedule", types.ErrMissingReferenceData)
	}
	return *s.bundle.Tariff, nil
}

// Catalog returns the equipment catalog or ErrMissingReferenceData.
func (s *Store) Catalog() (types.EquipmentCatalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bundle.Catalog == nil {
		return types.EquipmentCatalog{}, fmt.Errorf("%w: equipment catalog", types.ErrMissingReferenceData)
	}
	return *s.bundle.Catalog, nil
}

// Assumptions returns the baseline assumptions or ErrMissingReferenceData.
func (s *Store) Assumptions() (types.Assumptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bundle.Assumptions == nil {
		return types.Assumptions{}, fmt.Errorf("%w: baseline assumptions", types.ErrMissingReferenceData)
	}
	return *s.bundle.Assumptions, nil
}

// Counties returns the county irradiance table; empty when missing.
func (s *Store) Counties() []types.CountyIrradiance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.Counties
}

// GHIForCounty looks up a county's average irradiance, matching
// case-insensitively, falling back to DefaultGHI.
func (s *Store) GHIForCounty(name string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.bundle.Counties {
		if strings.EqualFold(c.County, name) {
			return c.AvgIrradianceKWHM2D
		}
	}
	return DefaultGHI
}

// LoadDir reads the four reference files from a directory. Files that do not
// exist are skipped; files that fail to parse abort the load.
func LoadDir(dir string) (Bundle, error) {
	files := make(map[string][]byte)
	for _, name := range []string{FileTariffs, FileCatalog, FileAssumptions, FileCounties} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Bundle{}, fmt.Errorf("reading %s: %w", name, err)
		}
		files[name] = data
	}
	return Parse(files)
}

// Parse decodes reference files keyed by canonical name. Missing keys leave
// the corresponding table nil.
func Parse(files map[string][]byte) (Bundle, error) {
	var b Bundle

	if data, ok := files[FileTariffs]; ok {
		schedule, err := parseTariffs(data)
		if err != nil {
			return Bundle{}, err
		}
		b.Tariff = schedule
	}
	if data, ok := files[FileCatalog]; ok {
		catalog, err := parseCatalog(data)
		if err != nil {
			return Bundle{}, err
		}
		b.Catalog = catalog
	}
	if data, ok := files[FileAssumptions]; ok {
		assumptions, err := parseAssumptions(data)
		if err != nil {
			return Bundle{}, err
		}
		b.Assumptions = assumptions
	}
	if data, ok := files[FileCounties]; ok {
		counties, err := parseCounties(data)
		if err != nil {
			return Bundle{}, err
		}
		b.Counties = counties
	}
	return b, nil
}

// tariffFile mirrors the layout of epra_tariffs_2024_2026.json.
type tariffFile struct {
	Tariffs struct {
		Domestic []struct {
			Name     string     `json:"name"`
			RangeKWH [2]float64 `json:"range_kwh"`
			BaseRate float64    `json:"base_rate_ksh_per_kwh"`
		} `json:"domestic"`
	} `json:"tariffs"`
	PassThrough float64 `json:"pass_through_charges_ksh_per_kwh"`
	VATRate     float64 `json:"vat_rate"`
}

func parseTariffs(data []byte) (*types.TariffSchedule, error) {
	var f tariffFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedReferenceData, FileTariffs, err)
	}

	schedule := &types.TariffSchedule{
		PassThroughKSHPerKWH: f.PassThrough,
		VATRate:              f.VATRate,
	}
	for _, t := range f.Tariffs.Domestic {
		schedule.Tiers = append(schedule.Tiers, types.TariffTier{
			Name:              t.Name,
			MinKWH:            t.RangeKWH[0],
			MaxKWH:            t.RangeKWH[1],
			BaseRateKSHPerKWH: t.BaseRate,
		})
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", FileTariffs, err)
	}
	return schedule, nil
}

// catalogFile mirrors the layout of equipment_catalog.json.
type catalogFile struct {
	Panels []struct {
		Brand    string  `json:"brand"`
		Model    string  `json:"model"`
		WattageW int     `json:"wattage_w"`
		PriceKSH float64 `json:"price_ksh"`
	} `json:"panels"`
	Inverters []struct {
		Brand      string  `json:"brand"`
		Model      string  `json:"model"`
		CapacityKW float64 `json:"capacity_kw"`
		PriceKSH   float64 `json:"price_ksh"`
	} `json:"inverters"`
}

func parseCatalog(data []byte) (*types.EquipmentCatalog, error) {
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedReferenceData, FileCatalog, err)
	}

	catalog := &types.EquipmentCatalog{}
	for _, p := range f.Panels {
		catalog.Panels = append(catalog.Panels, types.PanelModel{
			Brand: p.Brand, Model: p.Model, WattageW: p.WattageW, PriceKSH: p.PriceKSH,
		})
	}
	for _, inv := range f.Inverters {
		if inv.CapacityKW <= 0 {
			return nil, fmt.Errorf("%w: %s: inverter %q has no capacity",
				types.ErrMalformedReferenceData, FileCatalog, inv.Model)
		}
		catalog.Inverters = append(catalog.Inverters, types.InverterModel{
			Brand: inv.Brand, Model: inv.Model, CapacityKW: inv.CapacityKW, PriceKSH: inv.PriceKSH,
		})
	}
	return catalog, nil
}

// assumptionsFile mirrors the layout of baseline_assumptions.json.
type assumptionsFile struct {
	SystemLossesPercent       float64    `json:"system_losses_percent"`
	DegradationRatePerYear    float64    `json:"degradation_rate_per_year"`
	InstallCostPerWattRange   [2]float64 `json:"installation_cost_ksh_per_watt_range"`
	GridEmissionFactorTPerMWH float64    `json:"grid_emission_factor_tco2_per_mwh"`
}

func parseAssumptions(data []byte) (*types.Assumptions, error) {
	var f assumptionsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedReferenceData, FileAssumptions, err)
	}
	if f.SystemLossesPercent < 0 || f.SystemLossesPercent >= 1 {
		return nil, fmt.Errorf("%w: %s: system losses %v out of range",
			types.ErrMalformedReferenceData, FileAssumptions, f.SystemLossesPercent)
	}
	return &types.Assumptions{
		SystemLossesFraction:      f.SystemLossesPercent,
		DegradationRatePerYear:    f.DegradationRatePerYear,
		InstallCostPerWattRange:   f.InstallCostPerWattRange,
		GridEmissionFactorTPerMWH: f.GridEmissionFactorTPerMWH,
	}, nil
}

// countiesFile mirrors the layout of kenya_counties_irradiance.json.
type countiesFile struct {
	Counties []struct {
		County        string  `json:"county"`
		AvgIrradiance float64 `json:"avg_irradiance_kwh_m2_day"`
	} `json:"counties"`
}

func mustJSON(v any) []byte {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}

func parseCounties(data []byte) ([]types.CountyIrradiance, error) {
	var f countiesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedReferenceData, FileCounties, err)
	}
	counties := make([]types.CountyIrradiance, 0, len(f.Counties))
	for _, c := range f.Counties {
		if c.County == "" || c.AvgIrradiance <= 0 {
			return nil, fmt.Errorf("%w: %s: invalid county row %q",
				types.ErrMalformedReferenceData, FileCounties, c.County)
		}
		counties = append(counties, types.CountyIrradiance{
			County:              c.County,
			AvgIrradianceKWHM2D: c.AvgIrradiance,
		})
	}
	return counties, nil
}
