package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/juasmart/juasmart/pkg/advisor"
	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/types"
	"github.com/juasmart/juasmart/pkg/validate"
)

type recommendRequest struct {
	assessRequest
	Provider string `json:"provider"`
}

type recommendResponse struct {
	Recommendation types.Recommendation   `json:"recommendation"`
	Validation     types.ValidationReport `json:"validation"`
	Violations     []string               `json:"violations"`
	Assessment     types.Assessment       `json:"assessment"`
}

// handleRecommend runs the deterministic pipeline first and then asks the
// generator to review it. The deterministic configuration is pinned in the
// prompt so the model explains the numbers rather than inventing new ones.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	assessment, code, err := s.runAssessment(r, req.assessRequest)
	if err != nil {
		if code == http.StatusInternalServerError {
			log.Ctx(ctx).ErrorContext(ctx, "assessment pipeline failed", slog.Any("error", err))
			writeJSONError(w, "assessment failed", code)
			return
		}
		writeJSONError(w, err.Error(), code)
		return
	}

	gen, err := s.advisors.Provider(req.Provider)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "advisor provider unavailable", slog.Any("error", err))
		writeJSONError(w, "ai provider not configured", http.StatusServiceUnavailable)
		return
	}

	sched, _ := s.refdata.Tariff()
	catalog, _ := s.refdata.Catalog()
	assumptions, _ := s.refdata.Assumptions()

	existing := &types.ExistingConfig{
		SystemKW:       assessment.Estimate.Breakdown.ActualSystemKW,
		PanelCount:     assessment.Estimate.Breakdown.PanelCount,
		PanelWattageW:  assessment.Estimate.Breakdown.PanelWattageW,
		InverterKW:     assessment.Estimate.Breakdown.InverterCapacityKW,
		SolarCostKSH:   assessment.Estimate.Breakdown.TotalKSH,
		BatteryCostKSH: assessment.Estimate.Finance.BatteryCostKSH,
		UpfrontCostKSH: assessment.Estimate.Finance.UpfrontCostKSH,
	}
	if assessment.Battery != nil {
		existing.BatteryType = string(assessment.Battery.Spec.Chemistry)
		existing.BatteryUnits = assessment.Battery.Spec.TotalUnits
		existing.BatteryUnitAh = assessment.Battery.Spec.UnitAh
		existing.BatteryVoltage = assessment.Battery.Spec.SystemVoltage
		existing.BatteryConfig = assessment.Battery.Spec.Configuration
	}

	rec, err := gen.Generate(ctx, advisor.Request{
		County:           assessment.County,
		MonthlyKWH:       assessment.Profile.MonthlyKWH,
		SystemType:       assessment.SystemType,
		GHIKWHM2Day:      assessment.GHIKWHM2Day,
		TariffCategory:   assessment.Tariff.Category,
		EffectiveRateKSH: assessment.Tariff.EffectiveRateKSHPerKWH,
		Tariff:           sched,
		Catalog:          catalog,
		Assumptions:      assumptions,
		Existing:         existing,
	})
	if err != nil {
		switch {
		case errors.Is(err, types.ErrResponseParse):
			log.Ctx(ctx).ErrorContext(ctx, "ai response failed schema check", slog.Any("error", err))
			writeJSONError(w, "ai response invalid", http.StatusBadGateway)
		case errors.Is(err, types.ErrRemoteService):
			log.Ctx(ctx).ErrorContext(ctx, "ai service failed", slog.Any("error", err))
			writeJSONError(w, "ai service unavailable", http.StatusBadGateway)
		default:
			log.Ctx(ctx).ErrorContext(ctx, "recommendation failed", slog.Any("error", err))
			writeJSONError(w, "recommendation failed", http.StatusInternalServerError)
		}
		return
	}

	report := validate.Report(rec, assessment.Profile.MonthlyKWH, assessment.GHIKWHM2Day, assumptions)
	violations := validate.Structural(rec, assumptions)
	if violations == nil {
		violations = []string{}
	}

	assessment.Recommendation = &rec
	assessment.Validation = &report

	writeJSON(w, recommendResponse{
		Recommendation: rec,
		Validation:     report,
		Violations:     violations,
		Assessment:     assessment,
	})
}

type chatRequest struct {
	Message    string  `json:"message"`
	County     string  `json:"county"`
	MonthlyKWH float64 `json:"monthlyKWH"`
	Provider   string  `json:"provider"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		writeJSONError(w, "message is required", http.StatusBadRequest)
		return
	}

	gen, err := s.advisors.Provider(req.Provider)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "advisor provider unavailable", slog.Any("error", err))
		writeJSONError(w, "ai provider not configured", http.StatusServiceUnavailable)
		return
	}

	answer, err := gen.Chat(ctx, req.Message, advisor.ChatContext{
		County:     req.County,
		MonthlyKWH: req.MonthlyKWH,
	})
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "chat failed", slog.Any("error", err))
		writeJSONError(w, "ai service unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, struct {
		Answer string `json:"answer"`
	}{Answer: answer})
}
