package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bvzombies/internal/api/middleware"
	"github.com/mcoot/bvzombies/internal/api/response"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/auth"
)

// GameHandler handles game access, statistics and listings
type GameHandler struct {
	authService *auth.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(authService *auth.Service) *GameHandler {
	return &GameHandler{
		authService: authService,
	}
}

// Access handles GET /api/game
func (h *GameHandler) Access(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.Game(user, h.authService.GameAccess(user)))
}

// GetStats handles GET /api/stats/{id}
func (h *GameHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.UserID(mux.Vars(r)["id"])

	stats, err := h.authService.Stats(r.Context(), user, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Stats(stats))
}

// UpdateStats handles POST /api/stats/{id}.
// Nothing is recorded yet; the posted body is echoed back.
func (h *GameHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.UserID(mux.Vars(r)["id"])

	if err := h.authService.CanWriteStats(user, id); err != nil {
		WriteError(w, err)
		return
	}

	var body map[string]any
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsUpdate{Msg: response.MsgStatsUpdated, Stats: body})
}

// List handles the public leaderboard, game-stats and scores listings
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.EmptyList())
}
