package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcoot/gamenight/internal/services/auth"
	"github.com/mcoot/gamenight/internal/web/middleware"
	"github.com/mcoot/gamenight/internal/web/templates"
)

// AuthHandler handles the control login
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.HasControl(r.Context()) {
		// Already logged in
		http.Redirect(w, r, controlPath, http.StatusSeeOther)
		return
	}

	data := templates.LoginData{
		PageData: pageData(r, "Login"),
		Next:     r.URL.Query().Get("next"),
	}
	render(w, http.StatusOK, "login", data)
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/control/login", http.StatusSeeOther)
		return
	}

	next := r.FormValue("next")
	session, err := h.authService.Login(r.FormValue("passphrase"))
	if err != nil {
		middleware.SetFlash(w, "error", "Wrong passphrase")
		http.Redirect(w, r, "/control/login?next="+url.QueryEscape(next), http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.SetFlash(w, "success", "Control unlocked")

	// Redirect to original destination or the control page
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		http.Redirect(w, r, next, http.StatusSeeOther)
	} else {
		http.Redirect(w, r, controlPath, http.StatusSeeOther)
	}
}

// Logout ends the control session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}

	// Clear session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
