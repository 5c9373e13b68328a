// Package tokenstore keeps the bearer token (and the last fetched profile)
// in a persistent slot. The token is opaque here: it is never parsed or
// validated, only stored, read and removed.
package tokenstore

import (
	"context"
	"errors"

	"github.com/mcoot/bvzombies/internal/model"
)

// ErrNoToken is returned by Get when no token is stored
var ErrNoToken = errors.New("no authentication token")

// ErrNoProfile is returned by LoadProfile when no profile blob is stored
var ErrNoProfile = errors.New("no cached profile")

// Store is a persistent slot holding one bearer token
type Store interface {
	// Get returns the stored token or ErrNoToken
	Get(ctx context.Context) (string, error)
	// Exists reports whether Get would return a token
	Exists(ctx context.Context) bool
	// Set replaces the stored token
	Set(ctx context.Context, token string) error
	// Clear removes the token; clearing an empty slot is not an error
	Clear(ctx context.Context) error
}

// ProfileCache mirrors the last fetched profile as a JSON blob
type ProfileCache interface {
	SaveProfile(ctx context.Context, user *model.User) error
	LoadProfile(ctx context.Context) (*model.User, error)
	ClearProfile(ctx context.Context) error
}
