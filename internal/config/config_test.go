package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:3001/api", cfg.APIBaseURL)
	assert.Equal(t, StorageTypeMemory, cfg.Storage.Type)
	assert.Equal(t, 1500*time.Millisecond, cfg.RedirectDelay)
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("BVZ_API_BASE_URL", "https://api.example.com/api")
	t.Setenv("BVZ_PORT", "9000")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("BVZ_SECURE_COOKIES", "true")
	t.Setenv("BVZ_LOG_LEVEL", "debug")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, StorageTypeRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "postgres")

	_, err := LoadServer()
	assert.ErrorContains(t, err, "invalid STORAGE_TYPE")

	_, err = LoadDevAPI()
	assert.Error(t, err)
}

func TestLoadDevAPI(t *testing.T) {
	t.Setenv("BVZ_ADMIN_EMAILS", "boss@example.com,root@example.com")
	t.Setenv("BVZ_TOKEN_TTL", "1h")

	cfg, err := LoadDevAPI()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"boss@example.com", "root@example.com"}, cfg.AdminEmails)
}
