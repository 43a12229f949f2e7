package middleware

import (
	"net/http"
	"strings"

	"github.com/mcoot/gamenight/internal/api/apierr"
	"github.com/mcoot/gamenight/internal/services/auth"
)

// Control creates middleware guarding roster edits and match submission.
// A request passes with a valid session token, or with the passphrase
// itself as the bearer token. Everything passes when auth is disabled.
func Control(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if _, err := authService.ValidateSession(token); err != nil {
				if authService.Verify(token) != nil {
					apierr.WriteError(w, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken extracts the session token or passphrase from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}
