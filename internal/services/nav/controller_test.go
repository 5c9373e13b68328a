package nav

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bvzombies/internal/dependencies/clock"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/session"
	"github.com/mcoot/bvzombies/internal/storage/memory"
	"github.com/mcoot/bvzombies/internal/testutil"
	"github.com/mcoot/bvzombies/internal/testutil/apitest"
)

type ControllerSuite struct {
	suite.Suite
	api        *apitest.Server
	controller *Controller
	browser    *browser.Browser
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.api = apitest.New(s.T())
	s.controller = New(s.api.Client(), testutil.NopLogger())
	s.browser = browser.NewManager(memory.New(), session.NewTimers(clock.New()), testutil.NopLogger()).Open(context.Background(), "sid-1")
	s.ctx = context.Background()
}

func (s *ControllerSuite) signIn(req model.RegisterRequest) {
	s.Require().NoError(s.browser.Tokens.Set(s.ctx, s.api.Token(s.T(), req)))
}

func labels(v View) []string {
	out := make([]string, 0, len(v.Links))
	for _, l := range v.Links {
		out = append(out, l.Label)
	}
	return out
}

func (s *ControllerSuite) TestAnonymousWithoutFetch() {
	view := s.controller.Bar(s.ctx, s.browser)

	s.False(view.Authenticated)
	s.Equal([]string{"Home", "Leaderboard", "Login"}, labels(view))
	s.Zero(s.api.Calls())
}

func (s *ControllerSuite) TestAuthenticatedBar() {
	s.signIn(apitest.Rex())

	view := s.controller.Bar(s.ctx, s.browser)

	s.True(view.Authenticated)
	s.Equal("Welcome, rex!", view.Welcome)
	s.Equal([]string{"Home", "Game", "Leaderboard", "Profile", "Sign Out"}, labels(view))
}

func (s *ControllerSuite) TestAdminRoleAddsBackendTest() {
	boss := apitest.Rex()
	boss.Username, boss.Email = "boss", apitest.AdminEmail
	s.signIn(boss)

	view := s.controller.Bar(s.ctx, s.browser)

	s.Contains(labels(view), "Backend Test")
}

func (s *ControllerSuite) TestFailedFetchSignsOut() {
	s.signIn(apitest.Rex())
	s.Require().NoError(s.browser.Store.Dispatch(session.LoginSuccess{Token: "t"}))
	s.api.Fail("GET /api/profile", http.StatusInternalServerError, "boom")

	view := s.controller.Bar(s.ctx, s.browser)

	s.False(view.Authenticated)
	s.False(s.browser.Tokens.Exists(s.ctx))
	s.Equal(session.Initial(), s.browser.Store.State())
}

func TestAuthenticatedWelcomePrefersDisplayName(t *testing.T) {
	tests := []struct {
		user model.User
		want string
	}{
		{model.User{DisplayName: "Rex the Brave", Username: "rex", Email: "rex@example.com"}, "Welcome, Rex the Brave!"},
		{model.User{Username: "rex", Email: "rex@example.com"}, "Welcome, rex!"},
		{model.User{Email: "rex@example.com"}, "Welcome, rex@example.com!"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Authenticated(&tt.user).Welcome)
	}
}

func TestEmailAloneNeverGrantsAdminLinks(t *testing.T) {
	view := Authenticated(&model.User{Email: apitest.AdminEmail, Role: model.RolePlayer})
	assert.NotContains(t, labels(view), "Backend Test")
}
