package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/gamenight/internal/dependencies/clock"
	"github.com/mcoot/gamenight/internal/dependencies/random"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/auth"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/match"
	"github.com/mcoot/gamenight/internal/services/rating"
	"github.com/mcoot/gamenight/internal/services/roster"
	"github.com/mcoot/gamenight/internal/storage"
	"github.com/mcoot/gamenight/internal/storage/memory"
	redisstorage "github.com/mcoot/gamenight/internal/storage/redis"
	"github.com/mcoot/gamenight/internal/storage/sqlite"
	"github.com/mcoot/gamenight/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// DefaultSQLitePath is used when StorageType is sqlite and no path is set
const DefaultSQLitePath = "gamenight.db"

const sessionSweepInterval = 10 * time.Minute

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Rating configuration
	Scheme  model.RatingScheme
	EloMode rating.EloMode

	// Services
	Feed             *feed.Feed
	RosterController *roster.Controller
	MatchController  *match.Controller
	AuthService      *auth.Service
	HubManager       *sse.HubManager
	Broadcaster      *sse.Broadcaster

	stopListening func()
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig() with auth disabled
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file for the sqlite backend
	// If empty, defaults to DefaultSQLitePath
	SQLitePath string
	// Scheme is the rating scheme the engine runs with
	// If empty, defaults to bayes
	Scheme model.RatingScheme
	// EloMode selects sequential or simultaneous Elo updates
	// If empty, defaults to sequential
	EloMode rating.EloMode
}

// New creates a new application with all dependencies wired.
// Call Start before serving requests.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	scheme := cfg.Scheme
	if scheme == "" {
		scheme = model.SchemeBayes
	}
	if _, err := model.ParseRatingScheme(string(scheme)); err != nil {
		return nil, err
	}

	eloMode := cfg.EloMode
	if eloMode == "" {
		eloMode = rating.ModeSequential
	}
	if _, err := rating.ParseEloMode(string(eloMode)); err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.NewWithRandom(rnd)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store = redisStore
	case StorageTypeSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = DefaultSQLitePath
		}
		sqliteStore, err := sqlite.NewWithRandom(path, rnd)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}

	return newWithDependencies(store, clk, rnd, scheme, eloMode, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	scheme model.RatingScheme,
	eloMode rating.EloMode,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	// Create services
	liveFeed := feed.New(store, clk, logger.With(slog.String("component", "feed")))
	rosterController := roster.NewController(store, scheme, logger.With(slog.String("component", "roster")))
	matchController := match.NewController(store, scheme, eloMode, clk, logger.With(slog.String("component", "match")))
	authService := auth.New(clk, authCfg)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, sse.NewRenderer(liveFeed, scheme), logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		Scheme:           scheme,
		EloMode:          eloMode,
		Feed:             liveFeed,
		RosterController: rosterController,
		MatchController:  matchController,
		AuthService:      authService,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
	}
}

// Start subscribes the feed to the store, starts pushing changes to SSE
// clients, and waits for the first snapshot of every collection.
// The app runs until ctx is done or Close is called.
func (a *App) Start(ctx context.Context) error {
	events, stop := a.Feed.Listen()
	a.stopListening = stop

	if err := a.Feed.Start(ctx); err != nil {
		stop()
		return err
	}
	go a.Broadcaster.Run(ctx, events)
	if a.AuthService.Enabled() {
		go a.AuthService.SweepSessions(ctx, sessionSweepInterval)
	}

	return a.Feed.WaitReady(ctx)
}

// Close stops the feed, disconnects SSE clients and closes the store
func (a *App) Close() error {
	a.Feed.Close()
	if a.stopListening != nil {
		a.stopListening()
	}
	a.HubManager.CloseAll()
	return a.Storage.Close()
}
