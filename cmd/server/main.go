package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mcoot/bvzombies/internal/api"
	"github.com/mcoot/bvzombies/internal/config"
	"github.com/mcoot/bvzombies/internal/factory"
	redisstorage "github.com/mcoot/bvzombies/internal/storage/redis"
	"github.com/mcoot/bvzombies/internal/web"
	"github.com/mcoot/bvzombies/internal/web/middleware"
)

const cleanupInterval = time.Minute

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		fmt.Println(config.Usage(&config.Server{}))
		return
	}

	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:        logger,
		StorageType:   cfg.Storage.Type,
		APIBaseURL:    cfg.APIBaseURL,
		RedirectDelay: cfg.RedirectDelay,
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SlotTTL = cfg.SlotTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := factory.Close(app.Storage); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	var limiter *middleware.Limiter
	if cfg.AuthRate > 0 {
		limiter = middleware.NewLimiter(cfg.AuthRate, cfg.AuthBurst)
	}

	router := web.NewRouter(web.RouterConfig{
		Logger:        logger,
		Client:        app.Client,
		Browsers:      app.Browsers,
		Login:         app.Login,
		Profile:       app.Profile,
		Nav:           app.Nav,
		Play:          app.Play,
		HubManager:    app.HubManager,
		Broadcaster:   app.Broadcaster,
		Metrics:       app.Metrics,
		StaticDir:     findStaticDir(cfg.StaticDir),
		SecureCookies: cfg.SecureCookies,
		AuthRate:      cfg.AuthRate,
		AuthBurst:     cfg.AuthBurst,
		AuthLimiter:   limiter,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go cleanup(ctx, app, limiter, cfg.SlotTTL, logger)
	// Open event streams would otherwise hold shutdown for its full timeout
	server.OnShutdown(app.HubManager.CloseAll)

	logger.Info("web server configured",
		slog.String("addr", server.Addr()),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("storage", cfg.Storage.Type))

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// cleanup periodically drops per-browser state nobody is using.
// Stores and limiters are kept for the slot TTL after a browser's last request.
func cleanup(ctx context.Context, app *factory.App, limiter *middleware.Limiter, idle time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(app, limiter, idle, logger)
		}
	}
}

func sweep(app *factory.App, limiter *middleware.Limiter, idle time.Duration, logger *slog.Logger) {
	mounts := app.Mounts.Sweep(app.HubManager.Watched)
	hubs := app.HubManager.CleanupEmptyHubs()
	browsers := app.Browsers.Evict(idle)
	limiters := 0
	if limiter != nil {
		limiters = limiter.Evict(idle)
	}
	logger.Debug("cleanup sweep",
		slog.Int("mounts", len(mounts)),
		slog.Int("hubs", hubs),
		slog.Int("browsers", browsers),
		slog.Int("limiters", limiters))
}

// findStaticDir looks for the static files directory
func findStaticDir(configured string) string {
	candidates := []string{
		configured,
		filepath.Join(os.Getenv("PWD"), configured),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return configured
}
