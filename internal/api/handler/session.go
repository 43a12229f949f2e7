package handler

import (
	"net/http"

	"github.com/mcoot/gamenight/internal/api/apierr"
	"github.com/mcoot/gamenight/internal/api/middleware"
	"github.com/mcoot/gamenight/internal/api/request"
	"github.com/mcoot/gamenight/internal/api/response"
	"github.com/mcoot/gamenight/internal/services/auth"
)

// SessionHandler opens and closes control sessions
type SessionHandler struct {
	authService *auth.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService *auth.Service) *SessionHandler {
	return &SessionHandler{
		authService: authService,
	}
}

// Login handles POST /api/v1/session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Passphrase == "" {
		WriteError(w, apierr.NewInvalidRequestError("passphrase is required"))
		return
	}

	session, err := h.authService.Login(req.Passphrase)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Logout handles DELETE /api/v1/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.ExtractToken(r); token != "" {
		h.authService.InvalidateSession(token)
	}
	response.NoContent(w)
}
