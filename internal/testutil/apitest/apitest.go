// Package apitest runs the reference API in-process for tests of its clients.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/bvzombies/internal/api"
	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/dependencies/mocks"
	"github.com/mcoot/bvzombies/internal/dependencies/random"
	"github.com/mcoot/bvzombies/internal/endpoints"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/auth"
	"github.com/mcoot/bvzombies/internal/storage/memory"
	"github.com/mcoot/bvzombies/internal/testutil"
)

// AdminEmail is granted the admin role by every test server
const AdminEmail = "boss@example.com"

// Server is a reference API behind an httptest server
type Server struct {
	*httptest.Server
	Auth    *auth.Service
	Storage *memory.Storage
	Clock   *mocks.MockClock

	calls atomic.Int32

	mu        sync.Mutex
	overrides map[string]override
}

type override struct {
	status int
	msg    string
}

// AuthConfig is the auth configuration every test server uses
func AuthConfig() auth.Config {
	return auth.Config{AdminEmails: []string{AdminEmail}}
}

// New starts a server and closes it when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		Storage:   memory.New(),
		Clock:     mocks.NewMockClock(time.Now()),
		overrides: make(map[string]override),
	}
	s.Auth = auth.New(s.Storage, s.Clock, random.New(), AuthConfig())

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		AuthService: s.Auth,
	})

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if o, ok := s.override(r.Method + " " + r.URL.Path); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(o.status)
			_ = json.NewEncoder(w).Encode(model.ErrorEnvelope{Msg: o.msg})
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)

	return s
}

// BaseURL is the API root, as a client would configure it
func (s *Server) BaseURL() string {
	return s.URL + api.PathPrefix
}

// Client returns an API client pointed at the server
func (s *Server) Client() *apiclient.Client {
	return apiclient.New(apiclient.Config{
		Endpoints: endpoints.New(s.BaseURL()),
		Logger:    testutil.NopLogger(),
	})
}

// Calls returns how many requests the server has received
func (s *Server) Calls() int {
	return int(s.calls.Load())
}

// Fail makes "METHOD /api/path" answer status with msg until Restore
func (s *Server) Fail(route string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = override{status: status, msg: msg}
}

// Restore removes every Fail override
func (s *Server) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]override)
}

func (s *Server) override(route string) (override, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overrides[route]
	return o, ok
}

// Rex is the registration used throughout the tests
func Rex() model.RegisterRequest {
	return model.RegisterRequest{
		Username:       "rex",
		Email:          "rex@example.com",
		Password:       "zombies1",
		VerifyPassword: "zombies1",
		Age:            "20",
		Country:        "Chile",
	}
}

// Register creates an account directly through the auth service
func (s *Server) Register(t testing.TB, req model.RegisterRequest) *model.User {
	t.Helper()
	user, err := s.Auth.Register(context.Background(), req)
	require.NoError(t, err)
	return user
}

// Token registers req and returns a valid bearer token for it
func (s *Server) Token(t testing.TB, req model.RegisterRequest) string {
	t.Helper()
	s.Register(t, req)
	token, _, err := s.Auth.Login(context.Background(), req.Email, req.Password)
	require.NoError(t, err)
	return token
}
