package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/juasmart/juasmart/pkg/battery"
	"github.com/juasmart/juasmart/pkg/load"
	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/sizing"
	"github.com/juasmart/juasmart/pkg/tariff"
	"github.com/juasmart/juasmart/pkg/types"
	"github.com/juasmart/juasmart/pkg/validate"
)

// Battery lifecycle horizon used by the assessment pipeline. The financial
// model's 25-year horizon would dwarf battery lifetimes, so ownership cost is
// reported over a decade instead.
const (
	assessBatteryYears  = 10
	assessBatteryCycles = 1.0
)

type tariffRequest struct {
	MonthlyKWH float64 `json:"monthlyKWH"`
}

func (s *Server) handleTariff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tariffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.billConsumption(r, req.MonthlyKWH)
	if err != nil {
		if errors.Is(err, types.ErrMalformedReferenceData) {
			log.Ctx(ctx).ErrorContext(ctx, "malformed tariff schedule", slog.Any("error", err))
			writeJSONError(w, "tariff schedule malformed", http.StatusInternalServerError)
			return
		}
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, res)
}

// billConsumption bills kwh against the loaded schedule, degrading to a
// zeroed result when the schedule is missing.
func (s *Server) billConsumption(r *http.Request, kwh float64) (types.TariffResult, error) {
	ctx := r.Context()
	sched, err := s.refdata.Tariff()
	if err != nil {
		if errors.Is(err, types.ErrMissingReferenceData) {
			log.Ctx(ctx).WarnContext(ctx, "tariff schedule missing, degrading")
			return tariff.Degraded(kwh), nil
		}
		return types.TariffResult{}, err
	}
	return tariff.Bill(sched, kwh)
}

type loadRequest struct {
	Appliances map[string]int          `json:"appliances"`
	Custom     []types.CustomAppliance `json:"custom"`
	PumpHours  float64                 `json:"pumpHours"`
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, load.Estimate(req.Appliances, req.Custom, req.PumpHours))
}

type estimateRequest struct {
	County         string  `json:"county"`
	GHIKWHM2Day    float64 `json:"ghiKWHM2Day"`
	MonthlyKWH     float64 `json:"monthlyKWH"`
	RateKSHPerKWH  float64 `json:"rateKSHPerKWH"`
	BatteryCostKSH float64 `json:"batteryCostKSH"`
}

// resolveScenario fills the GHI, rate, catalog and assumptions for an
// estimate request, degrading gracefully when reference tables are missing.
func (s *Server) resolveScenario(r *http.Request, req estimateRequest) (ghi, rate float64, inverters []types.InverterModel, a types.Assumptions, err error) {
	ctx := r.Context()

	ghi = req.GHIKWHM2Day
	if ghi <= 0 {
		ghi = s.refdata.GHIForCounty(req.County)
	}

	rate = req.RateKSHPerKWH
	if rate <= 0 {
		res, billErr := s.billConsumption(r, req.MonthlyKWH)
		if billErr != nil {
			return 0, 0, nil, types.Assumptions{}, billErr
		}
		rate = res.EffectiveRateKSHPerKWH
	}

	catalog, catErr := s.refdata.Catalog()
	if catErr != nil {
		if !errors.Is(catErr, types.ErrMissingReferenceData) {
			return 0, 0, nil, types.Assumptions{}, catErr
		}
		log.Ctx(ctx).WarnContext(ctx, "equipment catalog missing, using fallback pricing")
	} else {
		inverters = catalog.Inverters
	}

	a, asmErr := s.refdata.Assumptions()
	if asmErr != nil && !errors.Is(asmErr, types.ErrMissingReferenceData) {
		return 0, 0, nil, types.Assumptions{}, asmErr
	}

	return ghi, rate, inverters, a, nil
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MonthlyKWH <= 0 {
		writeJSONError(w, "monthlyKWH must be positive", http.StatusBadRequest)
		return
	}

	ghi, rate, inverters, assumptions, err := s.resolveScenario(r, req)
	if err != nil {
		writeJSONError(w, "failed to resolve scenario", http.StatusInternalServerError)
		return
	}

	writeJSON(w, sizing.BuildEstimate(req.MonthlyKWH, ghi, rate, req.BatteryCostKSH, inverters, assumptions))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MonthlyKWH <= 0 {
		writeJSONError(w, "monthlyKWH must be positive", http.StatusBadRequest)
		return
	}

	ghi, rate, inverters, assumptions, err := s.resolveScenario(r, req)
	if err != nil {
		writeJSONError(w, "failed to resolve scenario", http.StatusInternalServerError)
		return
	}

	writeJSON(w, sizing.Compare(req.MonthlyKWH, ghi, rate, req.BatteryCostKSH, inverters, assumptions))
}

type batteryRequest struct {
	BackupKWH           float64                `json:"backupKWH"`
	DailyConsumptionKWH float64                `json:"dailyConsumptionKWH"`
	BackupHours         float64                `json:"backupHours"`
	SystemType          types.SystemType       `json:"systemType"`
	Chemistry           types.BatteryChemistry `json:"chemistry"`
	DoDOverride         float64                `json:"dodOverride"`
	SystemKW            float64                `json:"systemKW"`
	DailyCycles         float64                `json:"dailyCycles"`
	Years               int                    `json:"years"`
	Compare             bool                   `json:"compare"`
}

func (s *Server) handleBattery(w http.ResponseWriter, r *http.Request) {
	var req batteryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	backup := req.BackupKWH
	if backup <= 0 {
		backup = battery.BackupRequirement(req.DailyConsumptionKWH, req.BackupHours, req.SystemType)
	}
	if backup <= 0 {
		writeJSONError(w, "backup requirement must be positive", http.StatusBadRequest)
		return
	}

	chem := req.Chemistry
	if chem == "" {
		chem = types.BatteryLithium
	}
	cycles := req.DailyCycles
	if cycles <= 0 {
		cycles = assessBatteryCycles
	}
	years := req.Years
	if years <= 0 {
		years = assessBatteryYears
	}

	if req.Compare {
		cmp, err := battery.Compare(backup, req.SystemKW, cycles, years)
		if err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, cmp)
		return
	}

	plan, err := battery.Plan(backup, chem, req.DoDOverride, req.SystemKW, cycles, years)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, plan)
}

type assessRequest struct {
	County      string  `json:"county"`
	GHIKWHM2Day float64 `json:"ghiKWHM2Day"`

	MonthlyKWH float64                 `json:"monthlyKWH"`
	Appliances map[string]int          `json:"appliances"`
	Custom     []types.CustomAppliance `json:"custom"`
	PumpHours  float64                 `json:"pumpHours"`

	SystemType       types.SystemType       `json:"systemType"`
	BackupHours      float64                `json:"backupHours"`
	BatteryChemistry types.BatteryChemistry `json:"batteryChemistry"`
}

// runAssessment executes the full deterministic pipeline: consumption,
// tariff, battery, sizing, finance and the confidence checks.
func (s *Server) runAssessment(r *http.Request, req assessRequest) (types.Assessment, int, error) {
	monthly := req.MonthlyKWH
	if monthly <= 0 && (len(req.Appliances) > 0 || len(req.Custom) > 0) {
		monthly = load.Estimate(req.Appliances, req.Custom, req.PumpHours).MonthlyKWH
	}
	if monthly <= 0 {
		return types.Assessment{}, http.StatusBadRequest, errors.New("monthly consumption required")
	}

	systemType := req.SystemType
	if systemType == "" {
		systemType = types.SystemHybrid
	}

	ghi := req.GHIKWHM2Day
	if ghi <= 0 {
		ghi = s.refdata.GHIForCounty(req.County)
	}

	tariffRes, err := s.billConsumption(r, monthly)
	if err != nil {
		return types.Assessment{}, http.StatusInternalServerError, err
	}

	var inverters []types.InverterModel
	if catalog, catErr := s.refdata.Catalog(); catErr == nil {
		inverters = catalog.Inverters
	} else if !errors.Is(catErr, types.ErrMissingReferenceData) {
		return types.Assessment{}, http.StatusInternalServerError, catErr
	}
	assumptions, asmErr := s.refdata.Assumptions()
	if asmErr != nil && !errors.Is(asmErr, types.ErrMissingReferenceData) {
		return types.Assessment{}, http.StatusInternalServerError, asmErr
	}

	systemKW := sizing.RequiredKW(monthly, ghi)

	var plan *types.BatteryPlan
	var batteryCost float64
	if systemType != types.SystemGridTied {
		daily := monthly / types.DaysPerMonth
		backup := battery.BackupRequirement(daily, req.BackupHours, systemType)
		if backup > 0 {
			chem := req.BatteryChemistry
			if chem == "" {
				chem = types.BatteryLithium
			}
			p, planErr := battery.Plan(backup, chem, 0, systemKW, assessBatteryCycles, assessBatteryYears)
			if planErr != nil {
				return types.Assessment{}, http.StatusBadRequest, planErr
			}
			plan = &p
			batteryCost = p.Cost.InitialCostKSH
		}
	}

	est := sizing.BuildEstimate(monthly, ghi, tariffRes.EffectiveRateKSHPerKWH, batteryCost, inverters, assumptions)

	checks := []types.ValidationCheck{
		validate.CheckSizing(est.Breakdown.ActualSystemKW, monthly, ghi),
		validate.CheckPayback(float64(est.Finance.PaybackYears)),
		validate.CheckCostPerWatt(est.Breakdown.CostPerWattKSH, assumptions.InstallCostPerWattRange),
		validate.CheckIrradiance(ghi, req.County),
	}
	report := validate.Summarize(checks)

	return types.Assessment{
		CreatedAt:   time.Now().UTC(),
		County:      req.County,
		GHIKWHM2Day: ghi,
		SystemType:  systemType,
		BackupHours: req.BackupHours,
		Profile: types.ConsumptionProfile{
			MonthlyKWH: monthly,
			Appliances: req.Appliances,
			Custom:     req.Custom,
		},
		Tariff:     tariffRes,
		Estimate:   est,
		Battery:    plan,
		Validation: &report,
	}, http.StatusOK, nil
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	assessment, code, err := s.runAssessment(r, req)
	if err != nil {
		if code == http.StatusInternalServerError {
			log.Ctx(ctx).ErrorContext(ctx, "assessment pipeline failed", slog.Any("error", err))
			writeJSONError(w, "assessment failed", code)
			return
		}
		writeJSONError(w, err.Error(), code)
		return
	}

	writeJSON(w, assessment)
}
