package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/dependencies/clock"
	"github.com/mcoot/bvzombies/internal/dependencies/random"
	"github.com/mcoot/bvzombies/internal/endpoints"
	"github.com/mcoot/bvzombies/internal/game"
	"github.com/mcoot/bvzombies/internal/metrics"
	"github.com/mcoot/bvzombies/internal/services/auth"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/services/login"
	"github.com/mcoot/bvzombies/internal/services/nav"
	"github.com/mcoot/bvzombies/internal/services/play"
	"github.com/mcoot/bvzombies/internal/services/profile"
	"github.com/mcoot/bvzombies/internal/session"
	"github.com/mcoot/bvzombies/internal/storage"
	"github.com/mcoot/bvzombies/internal/storage/memory"
	redisstorage "github.com/mcoot/bvzombies/internal/storage/redis"
	"github.com/mcoot/bvzombies/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired components of the web front end
type App struct {
	// Storage holds every browser's session slots
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	Metrics *metrics.Metrics
	Client  *apiclient.Client

	// Services
	Browsers    *browser.Manager
	Timers      *session.Timers
	Login       *login.Controller
	Profile     *profile.Controller
	Nav         *nav.Controller
	Play        *play.Controller
	Mounts      *game.Mounts
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// APIBaseURL is where the game API lives; empty means same origin
	APIBaseURL string
	// HTTPClient is used for API calls (optional)
	HTTPClient *http.Client
	// RedirectDelay is how long the login success message shows
	RedirectDelay time.Duration
	// EngineFactory creates game engines (optional, defaults to game.NewInstance)
	EngineFactory game.EngineFactory
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := nopIfNil(cfg.Logger)

	store, err := newStorage(cfg.StorageType, cfg.RedisConfig)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *App {
	m := metrics.New()
	client := apiclient.New(apiclient.Config{
		Endpoints:  endpoints.New(cfg.APIBaseURL),
		HTTPClient: cfg.HTTPClient,
		Metrics:    m,
		Logger:     logger,
	})

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	mounts := game.NewMounts(cfg.EngineFactory, func(sid string, scene any) {
		broadcaster.BroadcastScene(context.Background(), sid, scene)
	}, logger)

	timers := session.NewTimers(clk)

	return &App{
		Storage:     store,
		Clock:       clk,
		Metrics:     m,
		Client:      client,
		Browsers:    browser.NewManager(store, timers, logger),
		Timers:      timers,
		Login:       login.New(client, timers, m, logger, login.Config{RedirectDelay: cfg.RedirectDelay}),
		Profile:     profile.New(client, logger),
		Nav:         nav.New(client, logger),
		Play:        play.New(client, mounts, logger),
		Mounts:      mounts,
		HubManager:  hubManager,
		Broadcaster: broadcaster,
	}
}

// API contains the wired components of the reference game API
type API struct {
	Storage     storage.Storage
	Clock       clock.Clock
	Random      random.Random
	AuthService *auth.Service
}

// APIConfig holds configuration for the reference API
type APIConfig struct {
	Logger      *slog.Logger
	StorageType string
	RedisConfig *redisstorage.Config
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields fall back to auth.DefaultConfig()
	AuthConfig auth.Config
}

// NewAPI wires the reference API's account service
func NewAPI(cfg APIConfig) (*API, error) {
	store, err := newStorage(cfg.StorageType, cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	return newAPIWithDependencies(store, clock.New(), random.New(), cfg.AuthConfig), nil
}

func newAPIWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config) *API {
	return &API{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		AuthService: auth.New(store, clk, rnd, authCfg),
	}
}

// Close releases the storage backend's connections, if it holds any
func Close(store storage.Storage) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newStorage(storageType string, redisCfg *redisstorage.Config) (storage.Storage, error) {
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if redisCfg == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*redisCfg)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}
}

func nopIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return logger
}
