package factory

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bvzombies/internal/game"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/services/login"
	"github.com/mcoot/bvzombies/internal/services/nav"
	redisstorage "github.com/mcoot/bvzombies/internal/storage/redis"
	"github.com/mcoot/bvzombies/internal/testutil/apitest"
)

type IntegrationSuite struct {
	suite.Suite
	api     *apitest.Server
	app     *TestApp
	browser *browser.Browser
	ctx     context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.api = apitest.New(s.T())
	s.app = NewTestApp(s.api.BaseURL())
	s.ctx = context.Background()
	s.browser = s.app.Browsers.Open(s.ctx, "sid-1")
}

func rexForm() login.Form {
	rex := apitest.Rex()
	return login.Form{
		Email:          rex.Email,
		Password:       rex.Password,
		VerifyPassword: rex.VerifyPassword,
		Username:       rex.Username,
		Age:            rex.Age,
		Country:        rex.Country,
	}
}

// Test: register, sign in, view the profile, play, sign out
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	// Step 1: Register. The browser is not signed in afterwards.
	view := s.app.Login.Submit(s.ctx, s.browser, login.ModeRegister, rexForm())
	s.Require().Empty(view.Error)
	s.Equal(login.ModeLogin, view.Mode)
	s.Equal(login.MsgRegisterSuccess, view.Success)
	s.False(s.browser.LoggedIn(s.ctx))

	// Step 2: Sign in
	view = s.app.Login.Submit(s.ctx, s.browser, login.ModeLogin, login.Form{Email: "rex@example.com", Password: "zombies1"})
	s.Require().Empty(view.Error)
	s.Equal("/profile", view.Redirect)
	s.True(s.browser.LoggedIn(s.ctx))

	// Step 3: The nav bar shows the signed-in links
	bar := s.app.Nav.Bar(s.ctx, s.browser)
	s.True(bar.Authenticated)
	s.Equal("Welcome, rex!", bar.Welcome)
	s.Contains(bar.Links, nav.SignOut)

	// Step 4: Profile
	page := s.app.Profile.Page(s.ctx, s.browser, false)
	s.Require().Empty(page.Error)
	s.Equal("rex", page.User.Username)

	// Step 5: Enter the game and report a scene; it reaches the browser's hub
	hub := s.app.HubManager.GetOrCreateHub(s.browser.SID)
	s.Require().NotNil(hub)
	play := s.app.Play.Enter(s.ctx, s.browser)
	s.Require().Empty(play.Redirect)
	s.Equal(game.ContainerID, play.ContainerID)
	s.Equal(1, s.app.Mounts.Refs(s.browser.SID))

	s.Require().NoError(s.app.Play.SceneReady(s.browser.SID, "MainMenu"))
	s.Eventually(func() bool {
		scene, ok := s.app.Play.Scene(s.browser.SID).(game.Scene)
		return ok && scene.Key == "MainMenu"
	}, time.Second, 10*time.Millisecond)

	// Step 6: Sign out tears everything down
	s.Require().NoError(s.app.Login.Logout(s.ctx, s.browser))
	s.Require().NoError(s.app.Play.Close(s.browser.SID))
	s.False(s.browser.LoggedIn(s.ctx))
	s.Zero(s.app.Mounts.Refs(s.browser.SID))
	s.False(s.app.Nav.Bar(s.ctx, s.browser).Authenticated)
}

// Test: session slots survive reopening the browser
func (s *IntegrationSuite) TestSessionPersistsAcrossRequests() {
	view := s.app.Login.Submit(s.ctx, s.browser, login.ModeLogin, login.Form{Email: "rex@example.com", Password: "zombies1"})
	s.NotEmpty(view.Error, "unregistered user cannot sign in")

	s.api.Register(s.T(), apitest.Rex())
	view = s.app.Login.Submit(s.ctx, s.browser, login.ModeLogin, login.Form{Email: "rex@example.com", Password: "zombies1"})
	s.Require().Empty(view.Error)
	s.app.Browsers.Save(s.ctx, s.browser)

	reopened := s.app.Browsers.Open(s.ctx, "sid-1")
	s.True(reopened.LoggedIn(s.ctx))

	other := s.app.Browsers.Open(s.ctx, "sid-2")
	s.False(other.LoggedIn(s.ctx))
}

// Test: an expired server session signs the browser out on the next fetch
func (s *IntegrationSuite) TestExpiredTokenSignsOut() {
	s.Require().NoError(s.browser.Tokens.Set(s.ctx, s.api.Token(s.T(), apitest.Rex())))
	s.api.Clock.Advance(25 * time.Hour)

	page := s.app.Profile.Page(s.ctx, s.browser, false)

	s.Equal("/login", page.Redirect)
	s.False(s.browser.LoggedIn(s.ctx))
}

// Test: login and upstream metrics are exported
func (s *IntegrationSuite) TestMetricsRecorded() {
	s.api.Register(s.T(), apitest.Rex())
	s.app.Login.Submit(s.ctx, s.browser, login.ModeLogin, login.Form{Email: "rex@example.com", Password: "zombies1"})

	rec := httptest.NewRecorder()
	s.app.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	s.Require().NoError(err)

	s.Contains(string(body), `bvz_session_events_total{event="login"} 1`)
	s.Contains(string(body), `bvz_upstream_requests_total`)
}

func TestNewStorageTypes(t *testing.T) {
	mini := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default memory", Config{}, false},
		{"memory", Config{StorageType: StorageTypeMemory}, false},
		{"redis without config", Config{StorageType: StorageTypeRedis}, true},
		{"redis", Config{StorageType: StorageTypeRedis, RedisConfig: &redisstorage.Config{URL: "redis://" + mini.Addr(), SlotTTL: time.Hour}}, false},
		{"unknown", Config{StorageType: "postgres"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if app.Login == nil || app.Play == nil || app.Broadcaster == nil {
				t.Fatal("app not fully wired")
			}
			if err := Close(app.Storage); err != nil {
				t.Fatalf("close: %v", err)
			}
		})
	}
}

func TestNewAPIAuthenticatesTokens(t *testing.T) {
	testAPI := NewTestAPI(apitest.AuthConfig())
	ctx := context.Background()

	_, err := testAPI.AuthService.Register(ctx, apitest.Rex())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := testAPI.AuthService.Login(ctx, "rex@example.com", "zombies1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	user, err := testAPI.AuthService.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "rex" {
		t.Fatalf("got user %q", user.Username)
	}
}
