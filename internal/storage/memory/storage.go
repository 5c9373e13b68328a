package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	slots         map[string]map[string]string
	accounts      map[model.UserID]*model.Account
	emailIndex    map[string]model.UserID
	usernameIndex map[string]model.UserID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		slots:         make(map[string]map[string]string),
		accounts:      make(map[model.UserID]*model.Account),
		emailIndex:    make(map[string]model.UserID),
		usernameIndex: make(map[string]model.UserID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Slot operations

func (s *Storage) GetSlot(ctx context.Context, sid, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.slots[sid][name]
	if !ok {
		return "", model.ErrSlotNotFound
	}
	return value, nil
}

func (s *Storage) SetSlot(ctx context.Context, sid, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	browser, ok := s.slots[sid]
	if !ok {
		browser = make(map[string]string)
		s.slots[sid] = browser
	}
	browser[name] = value
	return nil
}

func (s *Storage) DeleteSlot(ctx context.Context, sid, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots[sid], name)
	return nil
}

func (s *Storage) DeleteSlots(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, sid)
	return nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop stale index entries when the email or username changed
	if prev, ok := s.accounts[account.ID]; ok {
		delete(s.emailIndex, strings.ToLower(prev.Email))
		delete(s.usernameIndex, strings.ToLower(prev.Username))
	}

	cp := *account
	s.accounts[account.ID] = &cp
	s.emailIndex[strings.ToLower(account.Email)] = account.ID
	s.usernameIndex[strings.ToLower(account.Username)] = account.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.UserID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.GetAccount(ctx, id)
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	id, ok := s.usernameIndex[strings.ToLower(username)]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.GetAccount(ctx, id)
}
