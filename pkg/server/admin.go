package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/juasmart/juasmart/pkg/log"
)

// handleAdminReload re-reads the reference tables from their configured
// source. Intended for Cloud Scheduler or an operator after uploading new
// data; validated against a Google-signed ID token rather than the user
// OIDC flow.
func (s *Server) handleAdminReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !s.bypassAuth {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, "missing authorization header", http.StatusUnauthorized)
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeJSONError(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		payload, err := s.adminValidator(ctx, parts[1], s.adminAudience)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to validate admin id token", slog.Any("error", err))
			writeJSONError(w, "invalid id token", http.StatusUnauthorized)
			return
		}

		email, ok := payload.Claims["email"].(string)
		if !ok {
			log.Ctx(ctx).WarnContext(ctx, "invalid email in admin id token")
			writeJSONError(w, "invalid token claims", http.StatusForbidden)
			return
		}
		if !s.isAdmin(email) {
			log.Ctx(ctx).WarnContext(ctx, "unauthorized email for admin reload", slog.String("email", email))
			writeJSONError(w, "unauthorized email", http.StatusForbidden)
			return
		}
		log.Ctx(ctx).DebugContext(ctx, "admin reload authorized", slog.String("email", email))
	}

	if err := s.refdata.Reload(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "reference data reload failed", slog.Any("error", err))
		writeJSONError(w, "reload failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, struct {
		Status   string `json:"status"`
		Counties int    `json:"counties"`
	}{Status: "ok", Counties: len(s.refdata.Counties())})
}
