// Package play runs the game page: it checks game access, mounts the
// browser's engine and hands it the user-ready boot payload.
package play

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/game"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/session"
)

// ErrNotMounted is returned for scene reports from a browser with no game open
var ErrNotMounted = errors.New("no game mounted for this browser")

// Messages
const (
	MsgAccessFailed = "Could not start the game. Please try again."
	LoginPath       = "/login"
)

// View is what the game page renders
type View struct {
	ContainerID string
	Boot        *game.UserReady
	Error       string
	Redirect    string
}

// Controller owns the game page flow
type Controller struct {
	client *apiclient.Client
	mounts *game.Mounts
	logger *slog.Logger
}

// New creates a Controller
func New(client *apiclient.Client, mounts *game.Mounts, logger *slog.Logger) *Controller {
	return &Controller{
		client: client,
		mounts: mounts,
		logger: logger.With(slog.String("component", "play")),
	}
}

// Enter checks access, acquires the browser's mount and emits user-ready.
// Every Enter that returns a ContainerID holds one mount reference, which
// Leave gives back.
func (c *Controller) Enter(ctx context.Context, b *browser.Browser) View {
	if !b.LoggedIn(ctx) {
		return View{Redirect: LoginPath}
	}

	access, err := c.client.GameAccess(ctx, b.Tokens)
	if err != nil {
		return c.failed(ctx, b, err)
	}
	if access.GameData == nil || !access.GameData.Authorized {
		c.logger.Info("game access not authorized", slog.String("sid", b.SID))
		return View{Redirect: LoginPath}
	}

	user, err := c.client.Profile(ctx, b.Tokens)
	if err != nil {
		return c.failed(ctx, b, err)
	}
	_ = b.Store.Dispatch(session.UpdateProfile{Patch: session.PatchFromUser(user)})
	if err := b.Tokens.SaveProfile(ctx, user); err != nil {
		c.logger.Warn("failed to cache profile", slog.String("sid", b.SID), slog.String("error", err.Error()))
	}

	mount, err := c.mounts.Acquire(b.SID)
	if err != nil {
		c.logger.Error("failed to create game engine", slog.String("sid", b.SID), slog.String("error", err.Error()))
		return View{Error: MsgAccessFailed}
	}

	ready := game.UserReady{Profile: user, GameData: access.GameData}
	mount.Bus().Emit(game.EventUserReady, ready)

	return View{ContainerID: game.ContainerID, Boot: &ready}
}

// SceneReady relays the page's scene report to the mounted engine's bus
func (c *Controller) SceneReady(sid, key string) error {
	mount, ok := c.mounts.Get(sid)
	if !ok {
		return ErrNotMounted
	}
	mount.Bus().Emit(game.EventSceneReady, game.Scene{Key: key})
	return nil
}

// Scene returns the browser's current scene, nil if none was reported
func (c *Controller) Scene(sid string) any {
	mount, ok := c.mounts.Get(sid)
	if !ok {
		return nil
	}
	return mount.Handle().Scene()
}

// Leave gives back the reference taken by Enter
func (c *Controller) Leave(sid string) error {
	return c.mounts.Release(sid)
}

// Close destroys the browser's engine however many pages hold it
func (c *Controller) Close(sid string) error {
	return c.mounts.Close(sid)
}

func (c *Controller) failed(ctx context.Context, b *browser.Browser, err error) View {
	if errors.Is(err, apiclient.ErrSessionInvalid) || errors.Is(err, apiclient.ErrUnauthenticated) {
		if err := b.Expire(ctx); err != nil {
			c.logger.Warn("failed to clear ended session", slog.String("sid", b.SID), slog.String("error", err.Error()))
		}
		return View{Redirect: LoginPath}
	}
	c.logger.Warn("game access failed", slog.String("sid", b.SID), slog.String("error", err.Error()))
	return View{Error: MsgAccessFailed}
}
