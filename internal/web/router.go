package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight/internal/services/auth"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/match"
	"github.com/mcoot/gamenight/internal/services/roster"
	"github.com/mcoot/gamenight/internal/web/handler"
	"github.com/mcoot/gamenight/internal/web/middleware"
	"github.com/mcoot/gamenight/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	Feed             *feed.Feed
	RosterController *roster.Controller
	MatchController  *match.Controller
	HubManager       *sse.HubManager
	StaticDir        string // Path to static files directory, e.g. game images
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	controlMiddleware := middleware.Control(cfg.AuthService)
	optionalControlMiddleware := middleware.OptionalControl(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	scheme := cfg.MatchController.Scheme()

	// Create handlers
	scoreboardHandler := handler.NewScoreboardHandler(cfg.Feed, scheme, hubManager)
	profileHandler := handler.NewProfileHandler(cfg.Feed, scheme)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	controlHandler := handler.NewControlHandler(cfg.Feed, cfg.RosterController, cfg.MatchController, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Event stream (no flash handling, it would consume the cookie)
	r.HandleFunc("/events", scoreboardHandler.Events).Methods(http.MethodGet)

	// Public pages (optional control for showing the logout button)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalControlMiddleware)
	public.HandleFunc("/", scoreboardHandler.Scoreboard).Methods(http.MethodGet)
	public.HandleFunc("/history", scoreboardHandler.History).Methods(http.MethodGet)
	public.HandleFunc("/players/{id}", profileHandler.View).Methods(http.MethodGet)
	public.HandleFunc("/control/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/control/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/control/logout", authHandler.Logout).Methods(http.MethodPost)

	// Control routes (require a control session when a passphrase is set)
	protected := r.PathPrefix("/control").Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(controlMiddleware)
	protected.HandleFunc("", controlHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/matches", controlHandler.SubmitMatch).Methods(http.MethodPost)
	protected.HandleFunc("/players", controlHandler.AddPlayer).Methods(http.MethodPost)
	protected.HandleFunc("/players/{id}/delete", controlHandler.RemovePlayer).Methods(http.MethodPost)
	protected.HandleFunc("/games", controlHandler.AddGame).Methods(http.MethodPost)
	protected.HandleFunc("/games/{id}", controlHandler.RenameGame).Methods(http.MethodPost)
	protected.HandleFunc("/games/{id}/delete", controlHandler.RemoveGame).Methods(http.MethodPost)

	r.NotFoundHandler = middleware.Flash()(http.HandlerFunc(handler.NotFound))

	return r
}
