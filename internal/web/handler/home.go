package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/endpoints"
	"github.com/mcoot/bvzombies/internal/services/nav"
	"github.com/mcoot/bvzombies/internal/web/middleware"
	"github.com/mcoot/bvzombies/internal/web/templates/pages"
)

// HomeHandler handles the public pages
type HomeHandler struct {
	client *apiclient.Client
	nav    *nav.Controller
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(client *apiclient.Client, navs *nav.Controller, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		client: client,
		nav:    navs,
		logger: logger,
	}
}

// Home renders the landing page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())
	data := pages.HomeData{PageData: pageData(r.Context(), h.nav, b, "Home")}
	render(w, r, h.logger, pages.Home(data))
}

// Leaderboard renders the public leaderboard
func (h *HomeHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())
	data := pages.LeaderboardData{PageData: pageData(r.Context(), h.nav, b, "Leaderboard")}

	list, err := h.client.List(r.Context(), endpoints.Leaderboard)
	if err != nil {
		h.logger.Warn("leaderboard fetch failed", slog.String("error", err.Error()))
		data.Error = "Failed to load leaderboard"
	} else {
		data.Items = list.Items
	}

	render(w, r, h.logger, pages.Leaderboard(data))
}

// BackendTest checks every API endpoint. Only users the server reports as
// admins may see it.
func (h *HomeHandler) BackendTest(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())
	pd := pageData(r.Context(), h.nav, b, "Backend Test")
	if !pd.Nav.Authenticated {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !pd.Nav.User.IsAdmin() {
		middleware.SetFlash(w, "error", "Not authorized")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx := r.Context()
	resolver := h.client.Endpoints()
	check := func(name, url string, err error) pages.Check {
		if err != nil {
			return pages.Check{Name: name, URL: url, Detail: err.Error()}
		}
		return pages.Check{Name: name, URL: url, OK: true, Detail: "OK"}
	}

	var checks []pages.Check
	_, err := h.client.Profile(ctx, b.Tokens)
	checks = append(checks, check("Profile", resolver.Endpoint(endpoints.Profile), err))
	_, err = h.client.GameAccess(ctx, b.Tokens)
	checks = append(checks, check("Game access", resolver.Endpoint(endpoints.Game), err))
	_, err = h.client.Stats(ctx, b.Tokens, pd.Nav.User.ID)
	checks = append(checks, check("Statistics", resolver.Stats(string(pd.Nav.User.ID)), err))
	for _, key := range []endpoints.Key{endpoints.Leaderboard, endpoints.GameStats, endpoints.Scores} {
		_, err := h.client.List(ctx, key)
		checks = append(checks, check(string(key), resolver.Endpoint(key), err))
	}

	render(w, r, h.logger, pages.BackendTest(pages.BackendTestData{
		PageData: pd,
		User:     pd.Nav.User,
		Checks:   checks,
	}))
}
