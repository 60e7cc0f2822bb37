package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/juasmart/juasmart/pkg/irradiance"
	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/types"
)

type countyIrradianceResponse struct {
	County      string  `json:"county"`
	GHIKWHM2Day float64 `json:"ghiKWHM2Day"`
	Source      string  `json:"source"`
}

// handleIrradiance answers either from the county table (?county=) or by
// geocoding an address and averaging a year of NASA POWER daily GHI
// (?address=).
func (s *Server) handleIrradiance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	county := r.URL.Query().Get("county")
	address := r.URL.Query().Get("address")

	switch {
	case address != "":
		summary, err := s.irradiance.ForAddress(ctx, address)
		if err != nil {
			if errors.Is(err, irradiance.ErrGeocode) {
				writeJSONError(w, "address not found", http.StatusNotFound)
				return
			}
			log.Ctx(ctx).ErrorContext(ctx, "irradiance lookup failed", slog.String("address", address), slog.Any("error", err))
			writeJSONError(w, "irradiance service unavailable", http.StatusBadGateway)
			return
		}
		writeJSON(w, summary)
	case county != "":
		writeJSON(w, countyIrradianceResponse{
			County:      county,
			GHIKWHM2Day: s.refdata.GHIForCounty(county),
			Source:      "table",
		})
	default:
		writeJSONError(w, "county or address is required", http.StatusBadRequest)
	}
}

func (s *Server) handleListCounties(w http.ResponseWriter, r *http.Request) {
	counties := s.refdata.Counties()

	// Always return an array, even if empty
	if counties == nil {
		counties = []types.CountyIrradiance{}
	}

	writeJSON(w, counties)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	catalog, err := s.refdata.Catalog()
	if err != nil {
		if errors.Is(err, types.ErrMissingReferenceData) {
			writeJSONError(w, "equipment catalog not loaded", http.StatusServiceUnavailable)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get catalog", slog.Any("error", err))
		writeJSONError(w, "failed to get catalog", http.StatusInternalServerError)
		return
	}

	writeJSON(w, catalog)
}
