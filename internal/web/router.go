package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/metrics"
	sharedmw "github.com/mcoot/bvzombies/internal/middleware"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/services/login"
	"github.com/mcoot/bvzombies/internal/services/nav"
	"github.com/mcoot/bvzombies/internal/services/play"
	"github.com/mcoot/bvzombies/internal/services/profile"
	"github.com/mcoot/bvzombies/internal/web/handler"
	"github.com/mcoot/bvzombies/internal/web/middleware"
	"github.com/mcoot/bvzombies/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	Client      *apiclient.Client
	Browsers    *browser.Manager
	Login       *login.Controller
	Profile     *profile.Controller
	Nav         *nav.Controller
	Play        *play.Controller
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
	Metrics     *metrics.Metrics
	StaticDir   string // Path to static files directory

	SecureCookies bool
	// AuthRate and AuthBurst limit auth form posts per browser; zero disables
	AuthRate  float64
	AuthBurst int
	// AuthLimiter overrides the limiter built from AuthRate and AuthBurst
	AuthLimiter *middleware.Limiter
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(sharedmw.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}
	broadcaster := cfg.Broadcaster
	if broadcaster == nil {
		broadcaster = sse.NewBroadcaster(hubManager, cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.Client, cfg.Nav, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.Login, cfg.Nav, cfg.Play, broadcaster, cfg.Logger)
	profileHandler := handler.NewProfileHandler(cfg.Profile, cfg.Nav, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.Play, cfg.Nav, hubManager, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// Every page route runs with the browser's session slots
	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.BrowserSession(cfg.Browsers, cfg.SecureCookies))
	pages.Use(middleware.Flash())

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/leaderboard", homeHandler.Leaderboard).Methods(http.MethodGet)
	pages.HandleFunc("/backend-test", homeHandler.BackendTest).Methods(http.MethodGet)

	pages.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	pages.HandleFunc("/register", authHandler.Register).Methods(http.MethodGet)
	pages.HandleFunc("/countries", authHandler.Countries).Methods(http.MethodGet)
	pages.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Credential posts are throttled per browser
	authPosts := pages.NewRoute().Subrouter()
	limiter := cfg.AuthLimiter
	if limiter == nil && cfg.AuthRate > 0 {
		limiter = middleware.NewLimiter(cfg.AuthRate, cfg.AuthBurst)
	}
	if limiter != nil {
		authPosts.Use(middleware.RateLimit(limiter, cfg.Logger))
	}
	authPosts.HandleFunc("/login", authHandler.Submit).Methods(http.MethodPost)
	authPosts.HandleFunc("/login/toggle-password", authHandler.TogglePassword).Methods(http.MethodPost)

	pages.HandleFunc("/profile", profileHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/profile", profileHandler.Update).Methods(http.MethodPost)

	pages.HandleFunc("/game", gameHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/game/scene", gameHandler.Scene).Methods(http.MethodPost)
	pages.HandleFunc("/game/events", gameHandler.Events).Methods(http.MethodGet)
	pages.HandleFunc("/game/leave", gameHandler.Leave).Methods(http.MethodPost)

	return r
}
