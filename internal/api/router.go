package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/bvzombies/internal/api/handler"
	apimw "github.com/mcoot/bvzombies/internal/api/middleware"
	"github.com/mcoot/bvzombies/internal/endpoints"
	"github.com/mcoot/bvzombies/internal/middleware"
	"github.com/mcoot/bvzombies/internal/services/auth"
)

// PathPrefix is where the API is mounted
const PathPrefix = "/api"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.AuthService)

	authMiddleware := apimw.Auth(cfg.AuthService)

	api := r.PathPrefix(PathPrefix).Subrouter()
	api.Use(middleware.RequestID())
	api.Use(apimw.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Public routes
	api.HandleFunc(endpoints.Path(endpoints.Register), accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc(endpoints.Path(endpoints.Login), accountHandler.Login).Methods(http.MethodPost)
	for _, key := range []endpoints.Key{endpoints.Leaderboard, endpoints.GameStats, endpoints.Scores} {
		api.HandleFunc(endpoints.Path(key), gameHandler.List).Methods(http.MethodGet)
	}
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc(endpoints.Path(endpoints.Profile), accountHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc(endpoints.Path(endpoints.Profile), accountHandler.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc(endpoints.Path(endpoints.Game), gameHandler.Access).Methods(http.MethodGet)
	protected.HandleFunc("/stats/{id}", gameHandler.GetStats).Methods(http.MethodGet)
	protected.HandleFunc("/stats/{id}", gameHandler.UpdateStats).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests never reach route matching
	return apimw.CORS(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
