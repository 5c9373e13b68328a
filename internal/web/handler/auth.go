package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mcoot/bvzombies/internal/services/login"
	"github.com/mcoot/bvzombies/internal/services/nav"
	"github.com/mcoot/bvzombies/internal/services/play"
	"github.com/mcoot/bvzombies/internal/validation"
	"github.com/mcoot/bvzombies/internal/web/middleware"
	"github.com/mcoot/bvzombies/internal/web/sse"
	"github.com/mcoot/bvzombies/internal/web/templates/pages"
)

// AuthHandler handles the login/register screen and sign out
type AuthHandler struct {
	login       *login.Controller
	nav         *nav.Controller
	play        *play.Controller
	broadcaster *sse.Broadcaster
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(loginController *login.Controller, navs *nav.Controller, playController *play.Controller, broadcaster *sse.Broadcaster, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		login:       loginController,
		nav:         navs,
		play:        playController,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// LoginPage renders the auth screen in the mode named by ?mode=.
// A signed-in browser is sent to its profile instead.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())
	view := h.login.Page(r.Context(), b, login.ParseMode(r.URL.Query().Get("mode")))
	if view.Redirect != "" {
		http.Redirect(w, r, view.Redirect, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, view)
}

// Submit handles the auth form in either mode
func (h *AuthHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	b := middleware.GetBrowser(r.Context())
	form := login.Form{
		Email:          strings.TrimSpace(r.FormValue("email")),
		Password:       r.FormValue("password"),
		VerifyPassword: r.FormValue("verify_password"),
		Username:       strings.TrimSpace(r.FormValue("username")),
		Age:            strings.TrimSpace(r.FormValue("age")),
		Country:        strings.TrimSpace(r.FormValue("country")),
		Language:       strings.TrimSpace(r.FormValue("language")),
	}

	view := h.login.Submit(r.Context(), b, login.ParseMode(r.FormValue("mode")), form)
	h.renderLogin(w, r, view)
}

// TogglePassword flips password visibility and returns to the form
func (h *AuthHandler) TogglePassword(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())
	if err := h.login.TogglePassword(b); err != nil {
		h.logger.Error("failed to toggle password", slog.String("error", err.Error()))
	}
	mode := login.ParseMode(r.FormValue("mode"))
	http.Redirect(w, r, "/login?mode="+url.QueryEscape(string(mode)), http.StatusSeeOther)
}

// Register sends the browser to register mode, prefilling ?email= if given
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		http.Redirect(w, r, "/login?mode=register", http.StatusSeeOther)
		return
	}

	b := middleware.GetBrowser(r.Context())
	if err := h.login.RequestRegister(b, email); err != nil {
		h.logger.Error("failed to queue register redirect", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Countries returns type-ahead options for ?country=
func (h *AuthHandler) Countries(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, pages.CountryOptions(validation.Suggest(r.URL.Query().Get("country"))))
}

// Logout signs the browser out and closes its game
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())

	if err := h.login.Logout(r.Context(), b); err != nil {
		h.logger.Error("failed to clear session slots", slog.String("sid", b.SID), slog.String("error", err.Error()))
	}
	if err := h.play.Close(b.SID); err != nil {
		h.logger.Error("failed to close game", slog.String("sid", b.SID), slog.String("error", err.Error()))
	}
	h.broadcaster.BroadcastSignedOut(b.SID)

	middleware.SetFlash(w, "success", "You have been signed out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, view login.View) {
	b := middleware.GetBrowser(r.Context())
	title := "Sign In"
	if view.Mode == login.ModeRegister {
		title = "Register"
	}
	data := pages.LoginData{
		PageData: pageData(r.Context(), h.nav, b, title),
		View:     view,
	}
	render(w, r, h.logger, pages.Login(data))
}
