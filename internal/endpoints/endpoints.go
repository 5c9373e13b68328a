// Package endpoints resolves logical API endpoint names to absolute URLs.
package endpoints

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Key identifies a logical API endpoint
type Key string

// Endpoint keys
const (
	Login          Key = "LOGIN"
	Register       Key = "REGISTER"
	Profile        Key = "PROFILE"
	Game           Key = "GAME"
	ForgotPassword Key = "FORGOT_PASSWORD"
	ResetPassword  Key = "RESET_PASSWORD"
	Leaderboard    Key = "LEADERBOARD"
	GameStats      Key = "GAME_STATS"
	Scores         Key = "SCORES"
)

// DefaultBaseURL is the base used when nothing is configured
const DefaultBaseURL = "http://localhost:3001/api"

var paths = map[Key]string{
	Login:          "/login",
	Register:       "/register",
	Profile:        "/profile",
	Game:           "/game",
	ForgotPassword: "/forgot-password",
	ResetPassword:  "/reset-password",
	Leaderboard:    "/leaderboard",
	GameStats:      "/game-stats",
	Scores:         "/scores",
}

// Keys returns every known endpoint key
func Keys() []Key {
	return []Key{Login, Register, Profile, Game, ForgotPassword, ResetPassword, Leaderboard, GameStats, Scores}
}

// Path returns the fixed path for a key.
// Panics on an unknown key: callers must only use the constants above.
func Path(key Key) string {
	p, ok := paths[key]
	if !ok {
		panic(fmt.Sprintf("endpoints: unknown endpoint key %q", key))
	}
	return p
}

// Resolver builds endpoint URLs from a base URL that can be swapped at runtime
type Resolver struct {
	mu      sync.RWMutex
	baseURL string
}

// New creates a Resolver for the given base URL.
// An empty base falls back to DefaultBaseURL.
func New(baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{baseURL: baseURL}
}

// SetBaseURL replaces the base URL used by later lookups
func (r *Resolver) SetBaseURL(baseURL string) {
	r.mu.Lock()
	r.baseURL = baseURL
	r.mu.Unlock()
}

// BaseURL returns the current base URL
func (r *Resolver) BaseURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseURL
}

// Endpoint returns base URL + path for the key
func (r *Resolver) Endpoint(key Key) string {
	return r.BaseURL() + Path(key)
}

// Stats returns the per-user statistics URL
func (r *Resolver) Stats(userID string) string {
	return strings.TrimSuffix(r.BaseURL(), "/") + "/stats/" + url.PathEscape(userID)
}
