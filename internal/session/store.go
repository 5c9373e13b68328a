package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/storage"
	"github.com/mcoot/bvzombies/internal/tokenstore"
)

// Store holds one browser's state and serialises dispatches
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates a store starting from state
func NewStore(state State) *Store {
	return &Store{state: state}
}

// Dispatch applies an action. On error the state is unchanged.
func (s *Store) Dispatch(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, action)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoggedIn derives the logged-in flag from token presence.
// A state that still claims a login with no token behind it is expired.
func (s *Store) LoggedIn(tokenPresent bool) bool {
	if tokenPresent {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Auth.IsLoggedIn || s.state.Auth.Token != "" {
		s.state, _ = Reduce(s.state, SessionExpired{})
	}
	return false
}

// Snapshots persists store state in the browser's "store" slot
type Snapshots struct {
	storage storage.Storage
}

// NewSnapshots creates a snapshot store over st
func NewSnapshots(st storage.Storage) *Snapshots {
	return &Snapshots{storage: st}
}

// Load returns the saved state for a browser, or the initial state if none
func (s *Snapshots) Load(ctx context.Context, sid string) (State, error) {
	raw, err := s.storage.GetSlot(ctx, sid, tokenstore.SlotState)
	if errors.Is(err, model.ErrSlotNotFound) {
		return Initial(), nil
	}
	if err != nil {
		return Initial(), fmt.Errorf("load session state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return Initial(), fmt.Errorf("decode session state: %w", err)
	}
	return state, nil
}

// Save writes a browser's state
func (s *Snapshots) Save(ctx context.Context, sid string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := s.storage.SetSlot(ctx, sid, tokenstore.SlotState, string(data)); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}
