package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/endpoints"
	"github.com/mcoot/bvzombies/internal/tokenstore"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("BVZ_SERVER", endpoints.DefaultBaseURL),
		Token:     os.Getenv("BVZ_TOKEN"),
		TokenFile: getEnvOrDefault("BVZ_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// Tokens returns where the CLI keeps its token. An explicit --token is used
// as-is and never written to disk.
func (c *Config) Tokens() tokenstore.Store {
	if c.Token != "" {
		return &fixedToken{token: c.Token}
	}
	return tokenstore.NewFileStore(c.TokenFile)
}

// NewClient creates the API client for the configured server
func (c *Config) NewClient() *apiclient.Client {
	var logger *slog.Logger
	if c.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return apiclient.New(apiclient.Config{
		Endpoints: endpoints.New(c.ServerURL),
		Logger:    logger,
	})
}

// fixedToken holds a token given on the command line for one invocation
type fixedToken struct {
	token string
}

func (f *fixedToken) Get(context.Context) (string, error) {
	if f.token == "" {
		return "", tokenstore.ErrNoToken
	}
	return f.token, nil
}

func (f *fixedToken) Exists(context.Context) bool { return f.token != "" }

func (f *fixedToken) Set(_ context.Context, token string) error {
	f.token = token
	return nil
}

func (f *fixedToken) Clear(context.Context) error {
	f.token = ""
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bvz/token"
	}
	return filepath.Join(home, ".bvz", "token")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
