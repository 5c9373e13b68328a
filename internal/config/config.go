// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Storage selects the slot/account storage backend
type Storage struct {
	Type     string        `env:"STORAGE_TYPE" env-default:"memory" env-description:"memory or redis"`
	RedisURL string        `env:"REDIS_URL" env-default:"redis://localhost:6379" env-description:"Redis connection URL"`
	SlotTTL  time.Duration `env:"BVZ_SLOT_TTL" env-default:"168h" env-description:"idle lifetime of a browser's slots in redis"`
}

// HTTP configures a listening server
type HTTP struct {
	Host     string `env:"BVZ_HOST" env-description:"listen host, empty for all interfaces"`
	LogLevel string `env:"BVZ_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
}

// Server configures the web front end
type Server struct {
	HTTP
	Storage
	Port          int           `env:"BVZ_PORT" env-default:"8080" env-description:"web server port"`
	APIBaseURL    string        `env:"BVZ_API_BASE_URL" env-default:"http://localhost:3001/api" env-description:"game API root"`
	SecureCookies bool          `env:"BVZ_SECURE_COOKIES" env-default:"false" env-description:"mark session cookies Secure"`
	RedirectDelay time.Duration `env:"BVZ_REDIRECT_DELAY" env-default:"1500ms" env-description:"pause before leaving the login page"`
	AuthRate      float64       `env:"BVZ_AUTH_RATE" env-default:"1" env-description:"auth form posts per second per browser"`
	AuthBurst     int           `env:"BVZ_AUTH_BURST" env-default:"5" env-description:"auth form burst per browser"`
	StaticDir     string        `env:"BVZ_STATIC_DIR" env-default:"internal/web/static" env-description:"static assets directory"`
}

// DevAPI configures the reference game API
type DevAPI struct {
	HTTP
	Storage
	Port        int           `env:"BVZ_API_PORT" env-default:"3001" env-description:"reference API port"`
	JWTSecret   string        `env:"BVZ_JWT_SECRET" env-default:"super-secret" env-description:"HS256 signing secret"`
	TokenTTL    time.Duration `env:"BVZ_TOKEN_TTL" env-default:"24h" env-description:"issued token lifetime"`
	AdminEmails []string      `env:"BVZ_ADMIN_EMAILS" env-separator:"," env-description:"emails registered with the admin role"`
}

// LoadServer reads the web server configuration
func LoadServer() (*Server, error) {
	var cfg Server
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read server config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDevAPI reads the reference API configuration
func LoadDevAPI() (*DevAPI, error) {
	var cfg DevAPI
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read api config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Usage describes every variable of cfg, for --help output
func Usage(cfg any) string {
	desc, err := cleanenv.GetDescription(cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}

func (s Storage) validate() error {
	switch s.Type {
	case StorageTypeMemory, StorageTypeRedis:
		return nil
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be %q or %q", s.Type, StorageTypeMemory, StorageTypeRedis)
	}
}

// Level maps the configured log level to slog
func (h HTTP) Level() slog.Level {
	switch strings.ToLower(h.LogLevel) {
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
