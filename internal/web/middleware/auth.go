package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mcoot/gamenight/internal/services/auth"
)

type contextKey string

const (
	controlContextKey contextKey = "control"

	// SessionCookieName holds the control session token
	SessionCookieName = "session"
)

// HasControl reports whether the request carries a valid control session.
// Always true when no passphrase is configured.
func HasControl(ctx context.Context) bool {
	ok, _ := ctx.Value(controlContextKey).(bool)
	return ok
}

// Control returns middleware that requires a control session.
// Redirects to the login page if there is none.
func Control(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasSession(r, authService) {
				// Store original URL to redirect back after login
				redirectURL := "/control/login?next=" + url.QueryEscape(r.URL.Path)
				http.Redirect(w, r, redirectURL, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), controlContextKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalControl records whether a control session is present without requiring one
func OptionalControl(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), controlContextKey, hasSession(r, authService))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasSession(r *http.Request, authService *auth.Service) bool {
	if !authService.Enabled() {
		return true
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}

	_, err = authService.ValidateSession(cookie.Value)
	return err == nil
}
