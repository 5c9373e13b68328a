// Package profile drives the profile screen.
package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/session"
)

// Messages shown by the screen
const (
	MsgFetchFailed  = "Failed to fetch profile"
	MsgUpdateFailed = "Failed to update profile"
	MsgUpdated      = "Profile updated"
	MsgNameRequired = "Display name cannot be empty"
	LoginPath       = "/login"
)

// View is what the screen renders. A non-empty Redirect replaces the page.
type View struct {
	User     *model.User
	Stats    model.GameStats
	Editing  bool
	Error    string
	Success  string
	Redirect string
}

// Controller runs the profile screen against the API
type Controller struct {
	client *apiclient.Client
	logger *slog.Logger
}

// New creates a Controller
func New(client *apiclient.Client, logger *slog.Logger) *Controller {
	return &Controller{
		client: client,
		logger: logger.With(slog.String("component", "profile")),
	}
}

// Page fetches the profile. With no token it redirects to login without a
// request; an invalid session redirects after the token has been cleared;
// any other failure stays on the page with a generic message.
func (c *Controller) Page(ctx context.Context, b *browser.Browser, editing bool) View {
	if !b.LoggedIn(ctx) {
		return View{Redirect: LoginPath}
	}

	user, err := c.client.Profile(ctx, b.Tokens)
	if err != nil {
		if c.sessionEnded(ctx, b, err) {
			return View{Redirect: LoginPath}
		}
		c.logger.Warn("profile fetch failed", slog.String("sid", b.SID), slog.String("error", err.Error()))
		return View{Error: MsgFetchFailed}
	}

	_ = b.Store.Dispatch(session.UpdateProfile{Patch: session.PatchFromUser(user)})
	if err := b.Tokens.SaveProfile(ctx, user); err != nil {
		c.logger.Warn("failed to cache profile", slog.String("sid", b.SID), slog.String("error", err.Error()))
	}

	// Statistics are not aggregated anywhere yet; every counter stays zero.
	return View{User: user, Editing: editing}
}

// UpdateDisplayName saves a new display name and refetches the profile
func (c *Controller) UpdateDisplayName(ctx context.Context, b *browser.Browser, displayName string) View {
	if !b.LoggedIn(ctx) {
		return View{Redirect: LoginPath}
	}
	if displayName == "" {
		view := c.Page(ctx, b, true)
		if view.Redirect == "" && view.Error == "" {
			view.Error = MsgNameRequired
		}
		return view
	}

	if _, err := c.client.UpdateProfile(ctx, b.Tokens, displayName); err != nil {
		if c.sessionEnded(ctx, b, err) {
			return View{Redirect: LoginPath}
		}
		c.logger.Warn("profile update failed", slog.String("sid", b.SID), slog.String("error", err.Error()))
		view := c.Page(ctx, b, true)
		if view.Redirect == "" && view.Error == "" {
			view.Error = MsgUpdateFailed
		}
		return view
	}

	view := c.Page(ctx, b, false)
	if view.Redirect == "" && view.Error == "" {
		view.Success = MsgUpdated
	}
	return view
}

func (c *Controller) sessionEnded(ctx context.Context, b *browser.Browser, err error) bool {
	if !errors.Is(err, apiclient.ErrSessionInvalid) && !errors.Is(err, apiclient.ErrUnauthenticated) {
		return false
	}
	if err := b.Expire(ctx); err != nil {
		c.logger.Warn("failed to clear ended session", slog.String("sid", b.SID), slog.String("error", err.Error()))
	}
	c.logger.Info("session ended", slog.String("sid", b.SID))
	return true
}
