// Package browser gives each browser session its token slots and session
// store, shared across concurrent requests from the same browser.
package browser

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/bvzombies/internal/session"
	"github.com/mcoot/bvzombies/internal/storage"
	"github.com/mcoot/bvzombies/internal/tokenstore"
)

// Browser is one browser session's view of its persisted state
type Browser struct {
	SID    string
	Tokens *tokenstore.SlotStore
	Store  *session.Store
}

// LoggedIn reports whether the browser holds a token, reconciling the store
func (b *Browser) LoggedIn(ctx context.Context) bool {
	return b.Store.LoggedIn(b.Tokens.Exists(ctx))
}

// Expire ends the browser's session: the token and profile slots are
// cleared and the store keeps only the profile display fields.
func (b *Browser) Expire(ctx context.Context) error {
	dispatchErr := b.Store.Dispatch(session.SessionExpired{})
	return errors.Join(dispatchErr, b.clearSlots(ctx))
}

func (b *Browser) clearSlots(ctx context.Context) error {
	return errors.Join(b.Tokens.Clear(ctx), b.Tokens.ClearProfile(ctx))
}

// Manager opens Browsers and persists their session store
type Manager struct {
	storage   storage.Storage
	snapshots *session.Snapshots
	timers    *session.Timers
	logger    *slog.Logger

	mu     sync.Mutex
	stores map[string]*cachedStore
}

type cachedStore struct {
	store    *session.Store
	lastSeen time.Time
}

// NewManager creates a Manager over st. Every Open applies timers to the
// browser's store.
func NewManager(st storage.Storage, timers *session.Timers, logger *slog.Logger) *Manager {
	return &Manager{
		storage:   st,
		snapshots: session.NewSnapshots(st),
		timers:    timers,
		logger:    logger.With(slog.String("component", "browser")),
		stores:    make(map[string]*cachedStore),
	}
}

// Open returns the Browser for sid, loading its saved state on first use.
// An elapsed login block is lifted and an elapsed session is expired,
// clearing its slots, before the Browser is handed out.
func (m *Manager) Open(ctx context.Context, sid string) *Browser {
	m.mu.Lock()
	cached, ok := m.stores[sid]
	if !ok {
		state, err := m.snapshots.Load(ctx, sid)
		if err != nil {
			m.logger.Warn("discarding unreadable session state",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
		}
		cached = &cachedStore{store: session.NewStore(state)}
		m.stores[sid] = cached
	}
	cached.lastSeen = m.timers.Now()
	m.mu.Unlock()

	b := &Browser{
		SID:    sid,
		Tokens: tokenstore.NewSlotStore(m.storage, sid),
		Store:  cached.store,
	}
	m.refresh(ctx, b)
	return b
}

func (m *Manager) refresh(ctx context.Context, b *Browser) {
	expired, err := m.timers.Check(b.Store)
	if err != nil {
		m.logger.Error("failed to apply session timers", slog.String("sid", b.SID), slog.String("error", err.Error()))
		return
	}
	if !expired {
		return
	}
	if err := b.clearSlots(ctx); err != nil {
		m.logger.Error("failed to clear expired session slots", slog.String("sid", b.SID), slog.String("error", err.Error()))
	}
	m.logger.Info("session expired", slog.String("sid", b.SID))
}

// Save persists the browser's session store
func (m *Manager) Save(ctx context.Context, b *Browser) {
	if err := m.snapshots.Save(ctx, b.SID, b.Store.State()); err != nil {
		m.logger.Error("failed to save session state",
			slog.String("sid", b.SID),
			slog.String("error", err.Error()))
	}
}

// Forget drops every slot of a browser and its cached store
func (m *Manager) Forget(ctx context.Context, sid string) error {
	m.mu.Lock()
	delete(m.stores, sid)
	m.mu.Unlock()
	return m.storage.DeleteSlots(ctx, sid)
}

// Evict drops cached stores of browsers not seen for longer than idle.
// Their saved state stays in storage and is reloaded on the next Open.
func (m *Manager) Evict(idle time.Duration) int {
	cutoff := m.timers.Now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for sid, cached := range m.stores {
		if cached.lastSeen.Before(cutoff) {
			delete(m.stores, sid)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Debug("evicted idle browsers", slog.Int("count", evicted))
	}
	return evicted
}

// Cached returns the number of browsers with a store in memory
func (m *Manager) Cached() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
