package game

import (
	"log/slog"
	"sync"
)

// ContainerID is the element id the game page renders for the engine
const ContainerID = "game-container"

// Mounts keeps one reference-counted mount per browser session
type Mounts struct {
	mu      sync.Mutex
	factory EngineFactory
	onScene func(sid string, scene any)
	entries map[string]*mountEntry
	logger  *slog.Logger
}

type mountEntry struct {
	mount *Mount
	refs  int
	// consecutive sweeps that found no page watching
	unwatched int
}

// NewMounts creates a registry. onScene may be nil.
func NewMounts(factory EngineFactory, onScene func(sid string, scene any), logger *slog.Logger) *Mounts {
	if factory == nil {
		factory = NewInstance
	}
	return &Mounts{
		factory: factory,
		onScene: onScene,
		entries: make(map[string]*mountEntry),
		logger:  logger.With(slog.String("component", "game-mounts")),
	}
}

func (m *Mounts) entry(sid string) *mountEntry {
	if e, ok := m.entries[sid]; ok {
		return e
	}
	cfg := MountConfig{
		ContainerID: ContainerID,
		Bus:         NewBus(),
		Factory:     m.factory,
		Handle:      &Handle{},
	}
	if m.onScene != nil {
		cfg.OnScene = func(scene any) { m.onScene(sid, scene) }
	}
	e := &mountEntry{mount: NewMount(cfg)}
	m.entries[sid] = e
	return e
}

// Acquire renders the session's mount on first use and counts a reference
func (m *Mounts) Acquire(sid string) (*Mount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(sid)
	if err := e.mount.Render(); err != nil {
		if e.refs == 0 {
			delete(m.entries, sid)
		}
		return nil, err
	}
	e.refs++
	e.unwatched = 0
	m.logger.Debug("game mount acquired", slog.String("sid", sid), slog.Int("refs", e.refs))
	return e.mount, nil
}

// Release drops a reference and tears the mount down with the last one
func (m *Mounts) Release(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sid]
	if !ok {
		return nil
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(m.entries, sid)
	m.logger.Debug("game mount released", slog.String("sid", sid))
	return e.mount.Teardown()
}

// Close tears the session's mount down regardless of references
func (m *Mounts) Close(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sid]
	if !ok {
		return nil
	}
	delete(m.entries, sid)
	return e.mount.Teardown()
}

// Get returns the session's mount if one is rendered
func (m *Mounts) Get(sid string) (*Mount, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sid]
	if !ok {
		return nil, false
	}
	return e.mount, true
}

// Refs returns the reference count for a session
func (m *Mounts) Refs(sid string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[sid]; ok {
		return e.refs
	}
	return 0
}

// Sweep closes mounts whose pages are gone without releasing them.
// watched reports whether a session still has a page listening; a mount is
// closed once two consecutive sweeps find it unwatched, so a page that has
// rendered but not yet connected keeps its engine.
func (m *Mounts) Sweep(watched func(sid string) bool) []string {
	m.mu.Lock()
	sids := make([]string, 0, len(m.entries))
	for sid := range m.entries {
		sids = append(sids, sid)
	}
	m.mu.Unlock()

	live := make(map[string]bool, len(sids))
	for _, sid := range sids {
		live[sid] = watched(sid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var closed []string
	for _, sid := range sids {
		e, ok := m.entries[sid]
		if !ok {
			continue
		}
		if live[sid] {
			e.unwatched = 0
			continue
		}
		e.unwatched++
		if e.unwatched < 2 {
			continue
		}
		delete(m.entries, sid)
		if err := e.mount.Teardown(); err != nil {
			m.logger.Warn("failed to tear down abandoned mount", slog.String("sid", sid), slog.String("error", err.Error()))
		}
		closed = append(closed, sid)
	}
	if len(closed) > 0 {
		m.logger.Info("closed abandoned game mounts", slog.Int("count", len(closed)))
	}
	return closed
}
