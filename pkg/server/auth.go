package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/juasmart/juasmart/pkg/log"
)

// loginRequired lists the path prefixes that refuse anonymous requests. The
// calculator endpoints stay open; only per-user persistence needs identity.
func loginRequired(path string) bool {
	return strings.HasPrefix(path, "/api/assessments")
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("reqPath", r.URL.Path)))

		// admin endpoints carry their own token validation
		if strings.HasPrefix(r.URL.Path, "/api/admin/") {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if s.bypassAuth {
			ctx = context.WithValue(ctx, emailContextKey, bypassAuthEmail)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		var email string
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Ctx(ctx).WarnContext(ctx, "invalid auth header")
				writeJSONError(w, "invalid auth header", http.StatusBadRequest)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			emailRet, _, err := s.authenticateToken(ctx, token)
			if err != nil {
				log.Ctx(ctx).WarnContext(ctx, "auth token validation failed", slog.Any("error", err))
				writeJSONError(w, "invalid auth token", http.StatusUnauthorized)
				return
			}
			if emailRet == "" {
				log.Ctx(ctx).WarnContext(ctx, "no email in id token")
				writeJSONError(w, "invalid oidc claims", http.StatusUnauthorized)
				return
			}
			email = emailRet
			ctx = context.WithValue(ctx, emailContextKey, email)
			ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("authEmail", email)))
		}

		if email == "" && loginRequired(r.URL.Path) {
			log.Ctx(ctx).WarnContext(ctx, "unauthenticated request")
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) authenticateToken(ctx context.Context, token string) (string, time.Time, error) {
	var errs []error

	for providerName, verifier := range s.oidcVerifiers {
		idToken, err := verifier(ctx, token)
		if err == nil {
			var claims struct {
				Email string `json:"email"`
			}
			err = idToken.Claims(&claims)
			if err == nil {
				return claims.Email, idToken.Expiry, nil
			}
		}
		errs = append(errs, fmt.Errorf("%s verifier failed: %v", providerName, err))
	}

	if len(errs) > 1 {
		return "", time.Time{}, errors.Join(errs...)
	}
	if len(errs) == 1 {
		return "", time.Time{}, errs[0]
	}
	return "", time.Time{}, errors.New("no valid audiences configured or token invalid")
}
