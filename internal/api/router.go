package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight/internal/api/handler"
	"github.com/mcoot/gamenight/internal/api/middleware"
	"github.com/mcoot/gamenight/internal/services/auth"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/match"
	"github.com/mcoot/gamenight/internal/services/roster"
	"github.com/mcoot/gamenight/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	Feed             *feed.Feed
	RosterController *roster.Controller
	MatchController  *match.Controller
	HubManager       *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	RegisterRoutes(r, cfg)
	return r
}

// RegisterRoutes mounts the API under /api/v1 on an existing router
func RegisterRoutes(r *mux.Router, cfg RouterConfig) {
	scheme := cfg.MatchController.Scheme()

	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Feed, cfg.RosterController, scheme)
	gameHandler := handler.NewGameHandler(cfg.Feed, cfg.RosterController)
	matchHandler := handler.NewMatchHandler(cfg.Feed, cfg.MatchController)
	scoreboardHandler := handler.NewScoreboardHandler(cfg.Feed, scheme)
	sessionHandler := handler.NewSessionHandler(cfg.AuthService)
	eventsHandler := handler.NewEventsHandler(hubManager)

	// Create middleware
	controlMiddleware := middleware.Control(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Read-only routes
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/matches", matchHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", matchHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/scoreboard", scoreboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Session routes
	api.HandleFunc("/session", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/session", sessionHandler.Logout).Methods(http.MethodDelete)

	// Control routes (require a session or the passphrase when one is set)
	control := api.NewRoute().Subrouter()
	control.Use(controlMiddleware)
	control.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	control.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)
	control.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	control.HandleFunc("/games/{id}", gameHandler.Rename).Methods(http.MethodPatch)
	control.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	control.HandleFunc("/matches", matchHandler.Submit).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
