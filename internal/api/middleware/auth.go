// Package middleware holds the HTTP middleware for the Mercury API.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mercurylabs/mercury/internal/api/ctxkeys"
	pkgauth "github.com/mercurylabs/mercury/pkg/auth"
)

// Auth validates the Bearer JWT on protected routes and injects the operator
// subject into the request context. Mounted only when auth is configured;
// without a secret and password hash the API runs open.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			claims, err := pkgauth.ParseToken(secret, token)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := ctxkeys.WithValue(r.Context(), ctxkeys.Subject, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken reads the token from "Authorization: Bearer <token>".
// Empty when the header is missing, uses another scheme, or carries no token.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
