package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/bvzombies/internal/services/nav"
	"github.com/mcoot/bvzombies/internal/services/profile"
	"github.com/mcoot/bvzombies/internal/web/middleware"
	"github.com/mcoot/bvzombies/internal/web/templates/pages"
)

// ProfileHandler handles the profile screen
type ProfileHandler struct {
	profile *profile.Controller
	nav     *nav.Controller
	logger  *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileController *profile.Controller, navs *nav.Controller, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profile: profileController,
		nav:     navs,
		logger:  logger,
	}
}

// View renders the profile; ?edit=1 opens the display-name form
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())
	view := h.profile.Page(r.Context(), b, r.URL.Query().Get("edit") == "1")
	h.respond(w, r, view)
}

// Update saves the display name
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	b := middleware.GetBrowser(r.Context())
	view := h.profile.UpdateDisplayName(r.Context(), b, strings.TrimSpace(r.FormValue("display_name")))
	h.respond(w, r, view)
}

func (h *ProfileHandler) respond(w http.ResponseWriter, r *http.Request, view profile.View) {
	if view.Redirect != "" {
		http.Redirect(w, r, view.Redirect, http.StatusSeeOther)
		return
	}

	b := middleware.GetBrowser(r.Context())
	data := pages.ProfileData{
		PageData: pageData(r.Context(), h.nav, b, "Profile"),
		View:     view,
	}
	render(w, r, h.logger, pages.Profile(data))
}
