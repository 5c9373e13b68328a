package storage

import (
	"context"

	"github.com/mcoot/bvzombies/internal/model"
)

// Storage defines the interface for data persistence.
//
// Slots hold the per-browser values a browser client would keep in local
// storage (bearer token, profile blob, session store snapshot), keyed by an
// opaque browser session id. Accounts back the reference API.
type Storage interface {
	// Slot operations
	GetSlot(ctx context.Context, sid, name string) (string, error)
	SetSlot(ctx context.Context, sid, name, value string) error
	DeleteSlot(ctx context.Context, sid, name string) error
	DeleteSlots(ctx context.Context, sid string) error

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.UserID) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
}
