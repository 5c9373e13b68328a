package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/storage"
)

// Slot names used inside one browser's storage
const (
	SlotToken   = "token"
	SlotProfile = "profile"
	SlotState   = "store"
)

// SlotStore keeps the token and profile blob of one browser session
type SlotStore struct {
	storage storage.Storage
	sid     string
}

var (
	_ Store        = (*SlotStore)(nil)
	_ ProfileCache = (*SlotStore)(nil)
)

// NewSlotStore creates a token store bound to a browser session id
func NewSlotStore(st storage.Storage, sid string) *SlotStore {
	return &SlotStore{storage: st, sid: sid}
}

// SessionID returns the browser session id the store is bound to
func (s *SlotStore) SessionID() string {
	return s.sid
}

// Get returns the stored token or ErrNoToken
func (s *SlotStore) Get(ctx context.Context) (string, error) {
	token, err := s.storage.GetSlot(ctx, s.sid, SlotToken)
	if err != nil {
		if errors.Is(err, model.ErrSlotNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token slot: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Exists reports whether a token is stored
func (s *SlotStore) Exists(ctx context.Context) bool {
	_, err := s.Get(ctx)
	return err == nil
}

// Set replaces the stored token
func (s *SlotStore) Set(ctx context.Context, token string) error {
	return s.storage.SetSlot(ctx, s.sid, SlotToken, token)
}

// Clear removes the token
func (s *SlotStore) Clear(ctx context.Context) error {
	return s.storage.DeleteSlot(ctx, s.sid, SlotToken)
}

// SaveProfile stores the profile blob
func (s *SlotStore) SaveProfile(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.storage.SetSlot(ctx, s.sid, SlotProfile, string(data))
}

// LoadProfile returns the profile blob or ErrNoProfile
func (s *SlotStore) LoadProfile(ctx context.Context) (*model.User, error) {
	data, err := s.storage.GetSlot(ctx, s.sid, SlotProfile)
	if err != nil {
		if errors.Is(err, model.ErrSlotNotFound) {
			return nil, ErrNoProfile
		}
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("decode profile slot: %w", err)
	}
	return &user, nil
}

// ClearProfile removes the profile blob
func (s *SlotStore) ClearProfile(ctx context.Context) error {
	return s.storage.DeleteSlot(ctx, s.sid, SlotProfile)
}
