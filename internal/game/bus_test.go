package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusEmitCallsListeners(t *testing.T) {
	bus := NewBus()
	var got []any
	bus.On("ping", func(p any) { got = append(got, p) })
	bus.On("ping", func(p any) { got = append(got, p) })

	n := bus.Emit("ping", 1)

	assert.Equal(t, 2, n)
	assert.Equal(t, []any{1, 1}, got)
}

func TestBusOffRemovesListener(t *testing.T) {
	bus := NewBus()
	calls := 0
	sub := bus.On("ping", func(any) { calls++ })

	bus.Off("ping", sub)
	bus.Off("ping", sub)

	assert.Zero(t, bus.Emit("ping", nil))
	assert.Zero(t, calls)
	assert.Zero(t, bus.Listeners("ping"))
}

func TestBusEmitWithoutListeners(t *testing.T) {
	assert.Zero(t, NewBus().Emit("nothing", nil))
}

func TestBusListenerMayUnsubscribeItself(t *testing.T) {
	bus := NewBus()
	calls := 0
	var sub Subscription
	sub = bus.On("once", func(any) {
		calls++
		bus.Off("once", sub)
	})

	bus.Emit("once", nil)
	bus.Emit("once", nil)

	assert.Equal(t, 1, calls)
}
