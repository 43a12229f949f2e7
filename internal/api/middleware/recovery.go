package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/gamenight/internal/api/apierr"
	"github.com/mcoot/gamenight/internal/middleware"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR body
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
