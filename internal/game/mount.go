package game

import (
	"fmt"
	"sync"
)

// MountConfig configures a Mount
type MountConfig struct {
	ContainerID string
	Bus         *Bus
	Factory     EngineFactory
	Handle      *Handle
	OnScene     func(scene any)
}

// Mount binds exactly one engine instance to a container for as long as it
// is rendered. It has no state beyond the instance it holds.
type Mount struct {
	mu      sync.Mutex
	cfg     MountConfig
	engine  Engine
	sceneOn Subscription
}

// NewMount creates an unrendered mount
func NewMount(cfg MountConfig) *Mount {
	if cfg.Bus == nil {
		cfg.Bus = NewBus()
	}
	if cfg.Factory == nil {
		cfg.Factory = NewInstance
	}
	if cfg.Handle == nil {
		cfg.Handle = &Handle{}
	}
	return &Mount{cfg: cfg}
}

// Render creates the engine on first call; later calls are no-ops.
// If creation fails nothing is acquired.
func (m *Mount) Render() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine != nil {
		return nil
	}

	engine, err := m.cfg.Factory(m.cfg.ContainerID, m.cfg.Bus)
	if err != nil {
		return fmt.Errorf("create game engine: %w", err)
	}

	m.engine = engine
	m.cfg.Handle.setEngine(engine)
	m.sceneOn = m.cfg.Bus.On(EventSceneReady, m.forwardScene)
	return nil
}

func (m *Mount) forwardScene(scene any) {
	m.cfg.Handle.setScene(scene)
	if m.cfg.OnScene != nil {
		m.cfg.OnScene(scene)
	}
}

// Teardown removes the scene subscription and destroys the engine.
// Tearing down an unrendered mount is a no-op.
func (m *Mount) Teardown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine == nil {
		return nil
	}

	m.cfg.Bus.Off(EventSceneReady, m.sceneOn)
	err := m.engine.Destroy()
	m.engine = nil
	m.cfg.Handle.clear()
	if err != nil {
		return fmt.Errorf("destroy game engine: %w", err)
	}
	return nil
}

// Rendered reports whether an engine is currently held
func (m *Mount) Rendered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine != nil
}

// Handle returns the mount's handle
func (m *Mount) Handle() *Handle {
	return m.cfg.Handle
}

// Bus returns the mount's bus
func (m *Mount) Bus() *Bus {
	return m.cfg.Bus
}
