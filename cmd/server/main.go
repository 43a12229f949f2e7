package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/mcoot/gamenight/internal/api"
	"github.com/mcoot/gamenight/internal/factory"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/auth"
	"github.com/mcoot/gamenight/internal/services/rating"
	redisstorage "github.com/mcoot/gamenight/internal/storage/redis"
	"github.com/mcoot/gamenight/internal/web"
)

func main() {
	// A missing .env is fine, the environment may already be set
	envLoaded := godotenv.Load() == nil

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	if envLoaded {
		logger.Info("loaded .env")
	}

	// Build factory config from environment
	authCfg := auth.DefaultConfig()
	authCfg.PassphraseHash = os.Getenv("CONTROL_PASSWORD_HASH")

	cfg := factory.Config{
		AuthConfig:  authCfg,
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		Scheme:      model.RatingScheme(os.Getenv("RATING_SCHEME")),
		EloMode:     rating.EloMode(os.Getenv("ELO_MODE")),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		logger.Error("failed to start application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !app.AuthService.Enabled() {
		logger.Warn("CONTROL_PASSWORD_HASH not set, control routes are open")
	}

	// Both surfaces share one router; the API claims /api/v1 first
	router := mux.NewRouter()
	api.RegisterRoutes(router, api.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		Feed:             app.Feed,
		RosterController: app.RosterController,
		MatchController:  app.MatchController,
		HubManager:       app.HubManager,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		Feed:             app.Feed,
		RosterController: app.RosterController,
		MatchController:  app.MatchController,
		HubManager:       app.HubManager,
		StaticDir:        findStaticDir(),
	})
	router.PathPrefix("/").Handler(webRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("port", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server, err := api.NewServer(router, serverConfig, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// End open event streams so shutdown does not wait on them
	server.OnShutdown(app.HubManager.CloseAll)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("scheme", string(app.Scheme)),
	)

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// findStaticDir looks for the static files directory (game images)
func findStaticDir() string {
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		return dir
	}

	// Try common locations
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return ""
}
