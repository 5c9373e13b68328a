package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/bvzombies/internal/dependencies/random"
)

var _ random.Random = (*MockRandom)(nil)

// MockRandom hands out queued tokens, then "token-N" once the queue is empty
type MockRandom struct {
	mu     sync.Mutex
	queue  []string
	issued int
}

// NewMockRandom creates a MockRandom that returns tokens in order
func NewMockRandom(tokens ...string) *MockRandom {
	return &MockRandom{queue: tokens}
}

// Token pops the next queued token
func (r *MockRandom) Token() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.issued++
	if len(r.queue) == 0 {
		return fmt.Sprintf("token-%d", r.issued)
	}
	next := r.queue[0]
	r.queue = r.queue[1:]
	return next
}

// Issued reports how many tokens have been handed out
func (r *MockRandom) Issued() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issued
}
