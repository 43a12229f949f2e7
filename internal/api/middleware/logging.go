package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/gamenight/internal/middleware"
)

// Logging creates request logging middleware for the API.
// Records carry component=api to tell them apart from page requests.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "api")))
}
