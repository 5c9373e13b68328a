package handler

import (
	"net/http"

	"github.com/mcoot/bvzombies/internal/api/middleware"
	"github.com/mcoot/bvzombies/internal/api/response"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/auth"
)

// AccountHandler handles registration, login and profile endpoints
type AccountHandler struct {
	authService *auth.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// Register handles POST /api/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Registered(user))
}

// Login handles POST /api/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoggedIn(token, user))
}

// GetProfile handles GET /api/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.Profile(response.MsgProfile, user))
}

// UpdateProfile handles PUT /api/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req model.UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	updated, err := h.authService.UpdateDisplayName(r.Context(), user.ID, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Profile(response.MsgProfileUpdated, updated))
}
