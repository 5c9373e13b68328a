package game

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/bvzombies/internal/model"
)

// Engine is an opaque game-engine instance
type Engine interface {
	ID() string
	Destroy() error
}

// EngineFactory creates an engine bound to a container element
type EngineFactory func(containerID string, bus *Bus) (Engine, error)

// UserReady is the boot payload handed to the engine once per page
type UserReady struct {
	Profile  *model.User     `json:"profile"`
	GameData *model.GameData `json:"game_data"`
}

// Scene is what the browser reports when a scene becomes ready
type Scene struct {
	Key string `json:"key"`
}

// Handle is the caller-owned view of the mounted engine and its current scene
type Handle struct {
	mu     sync.RWMutex
	engine Engine
	scene  any
}

// Engine returns the mounted engine, nil when nothing is mounted
func (h *Handle) Engine() Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.engine
}

// Scene returns the last forwarded scene
func (h *Handle) Scene() any {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.scene
}

func (h *Handle) setEngine(e Engine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = e
}

func (h *Handle) setScene(scene any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scene = scene
}

func (h *Handle) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = nil
	h.scene = nil
}

// Instance is the server-side peer of the engine running in the page.
// It consumes the first user-ready event as its boot payload.
type Instance struct {
	id          string
	containerID string
	createdAt   time.Time
	bus         *Bus

	mu        sync.Mutex
	boot      *UserReady
	bootSub   Subscription
	destroyed bool
}

var _ Engine = (*Instance)(nil)

// NewInstance is the default EngineFactory
func NewInstance(containerID string, bus *Bus) (Engine, error) {
	inst := &Instance{
		id:          uuid.NewString(),
		containerID: containerID,
		createdAt:   time.Now(),
		bus:         bus,
	}
	inst.bootSub = bus.On(EventUserReady, inst.onUserReady)
	return inst, nil
}

func (i *Instance) onUserReady(payload any) {
	ready, ok := payload.(UserReady)
	if !ok {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.boot != nil || i.destroyed {
		return
	}
	i.boot = &ready
	i.bus.Off(EventUserReady, i.bootSub)
}

// ID returns the instance id
func (i *Instance) ID() string {
	return i.id
}

// ContainerID returns the element the instance is bound to
func (i *Instance) ContainerID() string {
	return i.containerID
}

// Boot returns the boot payload, nil until user-ready has been emitted
func (i *Instance) Boot() *UserReady {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.boot
}

// Destroy releases the instance
func (i *Instance) Destroy() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return nil
	}
	i.destroyed = true
	i.bus.Off(EventUserReady, i.bootSub)
	return nil
}

// Destroyed reports whether Destroy has been called
func (i *Instance) Destroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}
