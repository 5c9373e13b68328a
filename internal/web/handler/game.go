package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/bvzombies/internal/services/nav"
	"github.com/mcoot/bvzombies/internal/services/play"
	"github.com/mcoot/bvzombies/internal/web/middleware"
	"github.com/mcoot/bvzombies/internal/web/sse"
	"github.com/mcoot/bvzombies/internal/web/templates/pages"
)

// GameHandler handles the game page and the engine's reports
type GameHandler struct {
	play       *play.Controller
	nav        *nav.Controller
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(playController *play.Controller, navs *nav.Controller, hubManager *sse.HubManager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		play:       playController,
		nav:        navs,
		hubManager: hubManager,
		logger:     logger,
	}
}

// View mounts the game for the browser and renders the page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())

	view := h.play.Enter(r.Context(), b)
	if view.Redirect != "" {
		middleware.SetFlash(w, "info", "Please sign in to play.")
		http.Redirect(w, r, view.Redirect, http.StatusSeeOther)
		return
	}

	data := pages.GameData{
		PageData: pageData(r.Context(), h.nav, b, "Game"),
		View:     view,
		Scene:    h.play.Scene(b.SID),
	}
	render(w, r, h.logger, pages.Game(data))
}

type sceneReport struct {
	Scene string `json:"scene"`
}

// Scene accepts the engine's current-scene-ready report, as a form or JSON
func (h *GameHandler) Scene(w http.ResponseWriter, r *http.Request) {
	var key string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var report sceneReport
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		key = report.Scene
	} else {
		key = r.FormValue("scene")
	}
	if key == "" {
		http.Error(w, "scene is required", http.StatusBadRequest)
		return
	}

	b := middleware.GetBrowser(r.Context())
	if err := h.play.SceneReady(b.SID, key); err != nil {
		if errors.Is(err, play.ErrNotMounted) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.Error("scene report failed", slog.String("sid", b.SID), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events streams scene changes and sign-out notices to the page
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(b.SID))
}

// Leave releases the page's hold on the engine
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	b := middleware.GetBrowser(r.Context())
	if err := h.play.Leave(b.SID); err != nil {
		h.logger.Error("failed to release game", slog.String("sid", b.SID), slog.String("error", err.Error()))
	}
	w.WriteHeader(http.StatusNoContent)
}
