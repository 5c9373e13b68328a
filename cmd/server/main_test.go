package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bvzombies/internal/factory"
	"github.com/mcoot/bvzombies/internal/game"
	"github.com/mcoot/bvzombies/internal/testutil"
	"github.com/mcoot/bvzombies/internal/web/middleware"
)

type stubEngine struct{ id string }

func (e *stubEngine) ID() string     { return e.id }
func (e *stubEngine) Destroy() error { return nil }

func TestSweepDropsIdleBrowserState(t *testing.T) {
	app, err := factory.New(factory.Config{
		Logger: testutil.NopLogger(),
		EngineFactory: func(containerID string, bus *game.Bus) (game.Engine, error) {
			return &stubEngine{id: containerID}, nil
		},
	})
	require.NoError(t, err)

	app.Browsers.Open(context.Background(), "sid-1")
	_, err = app.Mounts.Acquire("sid-1")
	require.NoError(t, err)
	app.HubManager.GetOrCreateHub("sid-1")
	limiter := middleware.NewLimiter(1, 1)
	limiter.Allow("sid-1")

	// A negative idle window treats every browser as stale
	sweep(app, limiter, -time.Second, testutil.NopLogger())

	assert.Zero(t, app.Browsers.Cached())
	assert.Zero(t, limiter.Tracked())
	assert.Nil(t, app.HubManager.GetHub("sid-1"))
	assert.Equal(t, 1, app.Mounts.Refs("sid-1"), "an unwatched mount gets one sweep of grace")

	sweep(app, limiter, -time.Second, testutil.NopLogger())
	assert.Zero(t, app.Mounts.Refs("sid-1"))
}

func TestSweepWithoutLimiter(t *testing.T) {
	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)

	assert.NotPanics(t, func() { sweep(app, nil, time.Hour, testutil.NopLogger()) })
}
