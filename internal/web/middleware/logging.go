package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/gamenight/internal/middleware"
)

// Logging logs page, fragment, and stream requests under the web component.
// Static assets are served without a log line.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	logged := middleware.Logging(logger.With(slog.String("component", "web")))
	return func(next http.Handler) http.Handler {
		withLog := logged(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isStaticPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			withLog.ServeHTTP(w, r)
		})
	}
}

func isStaticPath(path string) bool {
	return strings.HasPrefix(path, "/static/")
}
