// Command devapi runs the reference game API for local development.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/bvzombies/internal/api"
	"github.com/mcoot/bvzombies/internal/config"
	"github.com/mcoot/bvzombies/internal/factory"
	"github.com/mcoot/bvzombies/internal/services/auth"
	redisstorage "github.com/mcoot/bvzombies/internal/storage/redis"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		fmt.Println(config.Usage(&config.DevAPI{}))
		return
	}

	cfg, err := config.LoadDevAPI()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	apiCfg := factory.APIConfig{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		AuthConfig: auth.Config{
			Secret:      cfg.JWTSecret,
			TokenTTL:    cfg.TokenTTL,
			AdminEmails: cfg.AdminEmails,
		},
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SlotTTL = cfg.SlotTTL
		apiCfg.RedisConfig = &redisCfg
	}

	app, err := factory.NewAPI(apiCfg)
	if err != nil {
		logger.Error("failed to create api", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		_ = factory.Close(app.Storage)
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("api stopped")
}
