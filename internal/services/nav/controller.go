// Package nav builds the navigation bar.
package nav

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/session"
)

// Link is one navigation entry
type Link struct {
	Label string
	Href  string
	Post  bool
}

// Links
var (
	Home        = Link{Label: "Home", Href: "/"}
	Game        = Link{Label: "Game", Href: "/game"}
	Leaderboard = Link{Label: "Leaderboard", Href: "/leaderboard"}
	Profile     = Link{Label: "Profile", Href: "/profile"}
	SignOut     = Link{Label: "Sign Out", Href: "/logout", Post: true}
	Login       = Link{Label: "Login", Href: "/login"}
	BackendTest = Link{Label: "Backend Test", Href: "/backend-test"}
)

// View is the rendered bar
type View struct {
	Authenticated bool
	Welcome       string
	User          *model.User
	Links         []Link
}

// Controller decides which bar a browser sees
type Controller struct {
	client *apiclient.Client
	logger *slog.Logger
}

// New creates a Controller
func New(client *apiclient.Client, logger *slog.Logger) *Controller {
	return &Controller{
		client: client,
		logger: logger.With(slog.String("component", "nav")),
	}
}

// Bar fetches the profile when a token exists. Any failure signs the
// browser out locally and the anonymous bar is shown.
func (c *Controller) Bar(ctx context.Context, b *browser.Browser) View {
	if !b.LoggedIn(ctx) {
		return Anonymous()
	}

	user, err := c.client.Profile(ctx, b.Tokens)
	if err != nil {
		c.logger.Info("signing out after failed profile fetch",
			slog.String("sid", b.SID),
			slog.String("error", err.Error()))
		c.signOut(ctx, b)
		return Anonymous()
	}

	return Authenticated(user)
}

func (c *Controller) signOut(ctx context.Context, b *browser.Browser) {
	if err := b.Tokens.Clear(ctx); err != nil {
		c.logger.Error("failed to clear token", slog.String("sid", b.SID), slog.String("error", err.Error()))
	}
	_ = b.Tokens.ClearProfile(ctx)
	_ = b.Store.Dispatch(session.Logout{})
}

// Anonymous is the bar for visitors without a session
func Anonymous() View {
	return View{Links: []Link{Home, Leaderboard, Login}}
}

// Authenticated is the bar for a signed-in user. Admins, as reported by the
// server, also get the backend test page.
func Authenticated(user *model.User) View {
	links := []Link{Home, Game, Leaderboard, Profile}
	if user.IsAdmin() {
		links = append(links, BackendTest)
	}
	links = append(links, SignOut)

	return View{
		Authenticated: true,
		Welcome:       fmt.Sprintf("Welcome, %s!", user.Name()),
		User:          user,
		Links:         links,
	}
}
