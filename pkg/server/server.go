// Package server exposes the assessment pipeline over an HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/idtoken"

	"github.com/juasmart/juasmart/pkg/advisor"
	"github.com/juasmart/juasmart/pkg/irradiance"
	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/refdata"
	"github.com/juasmart/juasmart/pkg/storage"
)

type contextKey string

const emailContextKey contextKey = "email"

// bypassAuthEmail is the identity assumed for every request when auth is
// bypassed in development.
const bypassAuthEmail = "dev@localhost"

// tokenVerifier is a function that validates a Google or Apple ID Token.
type tokenVerifier func(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)

// tokenValidator validates a Google-signed ID token against an audience.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Server handles the HTTP API for the solar advisor. It orchestrates the
// tariff, sizing, battery and finance engines, the remote irradiance and LLM
// boundaries, and assessment storage.
type Server struct {
	refdata    *refdata.Store
	advisors   *advisor.Map
	irradiance *irradiance.Client
	storage    storage.Database

	listenAddr string
	httpServer *http.Server

	adminEmails    []string
	adminAudience  string
	oidcAudiences  map[string]string
	oidcVerifiers  map[string]tokenVerifier
	adminValidator tokenValidator
	bypassAuth     bool
	serverName     string
}

// Configured initializes the Server with dependencies.
// It uses lflag to register command-line flags for configuration.
func Configured(rd *refdata.Store, a *advisor.Map, irr *irradiance.Client, db storage.Database) *Server {
	srv := &Server{
		refdata:        rd,
		advisors:       a,
		irradiance:     irr,
		storage:        db,
		adminValidator: idtoken.Validate,
		serverName:     "juasmart",
	}
	revision := os.Getenv("K_REVISION")
	if revision != "" {
		srv.serverName = revision
	}

	// get the port from PORT when running in cloud run
	port := os.Getenv("PORT")
	if port == "" {
		// otherwise default to 8080
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	adminEmails := lflag.String("admin-emails", "", "comma-delimited list of email addresses allowed to reload reference data")
	adminAudience := lflag.String("admin-audience", "", "audience to validate for /api/admin tokens")
	oidcAudiences := map[string]string{}
	lflag.JSON(&oidcAudiences, "oidc-audiences", oidcAudiences, "JSON map of provider (google/apple) to audience/client ID")
	bypassAuth := lflag.Bool("bypass-auth", false, "Disable authentication (development only)")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		srv.adminAudience = *adminAudience
		if *adminEmails != "" {
			srv.adminEmails = strings.Split(*adminEmails, ",")
			for i, email := range srv.adminEmails {
				srv.adminEmails[i] = strings.TrimSpace(email)
			}
		}
		if len(oidcAudiences) > 0 {
			srv.oidcAudiences = make(map[string]string, len(oidcAudiences))
			srv.oidcVerifiers = make(map[string]tokenVerifier, len(oidcAudiences))
			for n, aud := range oidcAudiences {
				var issuer string
				switch n {
				case "google":
					issuer = "https://accounts.google.com"
				case "apple":
					issuer = "https://appleid.apple.com"
				default:
					log.Ctx(context.Background()).Error("unsupported oidc audience client", slog.String("client", n))
					os.Exit(1)
				}
				provider, err := oidc.NewProvider(context.Background(), issuer)
				if err != nil {
					log.Ctx(context.Background()).Error("failed to initialize OIDC provider", slog.String("client", n), slog.Any("error", err))
					os.Exit(1)
				}
				srv.oidcVerifiers[n] = provider.Verifier(&oidc.Config{ClientID: aud}).Verify
				srv.oidcAudiences[n] = aud
			}
		}
		srv.bypassAuth = *bypassAuth
		if len(srv.oidcAudiences) == 0 {
			srv.bypassAuth = true
		}
	})

	return srv
}

func (s *Server) setupHandler() http.Handler {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /api/tariff", s.handleTariff)
	apiMux.HandleFunc("POST /api/load", s.handleLoad)
	apiMux.HandleFunc("POST /api/estimate", s.handleEstimate)
	apiMux.HandleFunc("POST /api/compare", s.handleCompare)
	apiMux.HandleFunc("POST /api/battery", s.handleBattery)
	apiMux.HandleFunc("POST /api/assess", s.handleAssess)
	apiMux.HandleFunc("POST /api/recommend", s.handleRecommend)
	apiMux.HandleFunc("POST /api/chat", s.handleChat)
	apiMux.HandleFunc("GET /api/irradiance", s.handleIrradiance)
	apiMux.HandleFunc("GET /api/list/counties", s.handleListCounties)
	apiMux.HandleFunc("GET /api/catalog", s.handleCatalog)
	apiMux.HandleFunc("POST /api/assessments", s.handleSaveAssessment)
	apiMux.HandleFunc("GET /api/assessments", s.handleListAssessments)
	apiMux.HandleFunc("GET /api/assessments/{id}", s.handleGetAssessment)
	apiMux.HandleFunc("DELETE /api/assessments/{id}", s.handleDeleteAssessment)
	apiMux.HandleFunc("GET /api/assessments/{id}/report", s.handleAssessmentReport)
	apiMux.HandleFunc("POST /api/admin/reload", s.handleAdminReload)

	mux := http.NewServeMux()
	mux.Handle("/api/", s.authMiddleware(apiMux))
	mux.HandleFunc("/healthz", s.handleHealthz)
	return s.revisionMiddleware(gziphandler.GzipHandler(s.securityHeadersMiddleware(mux)))
}

// getUserEmail returns the authenticated email, or "" for anonymous
// requests.
func (s *Server) getUserEmail(r *http.Request) string {
	if email, ok := r.Context().Value(emailContextKey).(string); ok {
		return email
	}
	return ""
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// use a channel to capture server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		// Context canceled, shut down gracefully
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) revisionMiddleware(next http.Handler) http.Handler {
	if s.serverName == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverName)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Strict-Transport-Security: max-age=2 years
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")

		// Prevent MIME-sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// isAdmin returns true if the email is in the adminEmails list.
func (s *Server) isAdmin(email string) bool {
	for _, adminEmail := range s.adminEmails {
		if email == adminEmail {
			return true
		}
	}
	return false
}
