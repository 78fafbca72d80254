// Package middleware holds the HTTP middleware specific to the public API
// surface: API-key authentication, per-client rate limiting, and CORS.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/auth/apikey"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/logger"
)

// Auth rejects requests lacking a valid X-API-Key header. Health probes stay
// open so orchestrators can reach them without credentials.
func Auth(validator *apikey.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/health") {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing X-API-Key header")
				return
			}

			valid, err := validator.Validate(r.Context(), key)
			if err != nil {
				logger.FromContext(r.Context()).Error("api key validation failed", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "could not validate credentials")
				return
			}
			if !valid {
				writeAuthError(w, http.StatusUnauthorized, "invalid or revoked API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
