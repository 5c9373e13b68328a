package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/bvzombies/internal/dependencies/clock"
)

// Defaults for Timers
const (
	DefaultMaxLoginAttempts = 5
	DefaultBlockDuration    = 5 * time.Minute
	DefaultSessionTTL       = 24 * time.Hour
)

// Timers enforces the block and session deadlines recorded in state
type Timers struct {
	clock            clock.Clock
	MaxLoginAttempts int
	BlockDuration    time.Duration
}

// NewTimers creates Timers with default limits
func NewTimers(c clock.Clock) *Timers {
	return &Timers{
		clock:            c,
		MaxLoginAttempts: DefaultMaxLoginAttempts,
		BlockDuration:    DefaultBlockDuration,
	}
}

// Now returns the timer clock's current time
func (t *Timers) Now() time.Time {
	return t.clock.Now()
}

// AfterFailure blocks further logins once the attempt limit is reached.
// Returns true if a block was applied.
func (t *Timers) AfterFailure(store *Store) (bool, error) {
	state := store.State()
	if state.Auth.IsBlocked || state.Auth.LoginAttempts < t.MaxLoginAttempts {
		return false, nil
	}
	if err := store.Dispatch(BlockLogin{ExpiresAt: t.clock.Now().Add(t.BlockDuration)}); err != nil {
		return false, err
	}
	return true, nil
}

// Check lifts an elapsed block and expires an elapsed session.
// It reports whether the session was expired by this call.
func (t *Timers) Check(store *Store) (bool, error) {
	now := t.clock.Now()
	state := store.State()

	if state.Auth.IsBlocked && state.Auth.BlockExpiresAt != nil && now.After(*state.Auth.BlockExpiresAt) {
		if err := store.Dispatch(UnblockLogin{}); err != nil {
			return false, err
		}
	}
	if state.Auth.SessionExpiresAt != nil && now.After(*state.Auth.SessionExpiresAt) {
		if err := store.Dispatch(SessionExpired{}); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// BlockRemaining returns how long the current block still has to run
func (t *Timers) BlockRemaining(state State) time.Duration {
	if !state.Auth.IsBlocked || state.Auth.BlockExpiresAt == nil {
		return 0
	}
	remaining := t.clock.Until(*state.Auth.BlockExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SessionExpiry returns the exp claim of token, or DefaultSessionTTL from now
// if the token carries none. The signature is not checked; only the server
// can do that.
func (t *Timers) SessionExpiry(token string) time.Time {
	fallback := t.clock.Now().Add(DefaultSessionTTL)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return fallback
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	return exp.Time
}
