package profile

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bvzombies/internal/dependencies/clock"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/session"
	"github.com/mcoot/bvzombies/internal/storage/memory"
	"github.com/mcoot/bvzombies/internal/testutil"
	"github.com/mcoot/bvzombies/internal/testutil/apitest"
	"github.com/mcoot/bvzombies/internal/tokenstore"
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

func (s *ControllerSuite) signIn() {
	token := s.api.Token(s.T(), apitest.Rex())
	s.Require().NoError(s.browser.Tokens.Set(s.ctx, token))
	s.Require().NoError(s.browser.Store.Dispatch(session.LoginSuccess{Token: token, SessionExpiresAt: time.Now().Add(time.Hour)}))
}

func (s *ControllerSuite) TestNoTokenRedirectsWithoutFetch() {
	view := s.controller.Page(s.ctx, s.browser, false)

	s.Equal(LoginPath, view.Redirect)
	s.Nil(view.User)
	s.Zero(s.api.Calls())
}

func (s *ControllerSuite) TestPageLoadsProfile() {
	s.signIn()

	view := s.controller.Page(s.ctx, s.browser, false)

	s.Empty(view.Redirect)
	s.Empty(view.Error)
	s.Require().NotNil(view.User)
	s.Equal("rex", view.User.Username)
	s.Equal("rex", s.browser.Store.State().Profile.Username)

	cached, err := s.browser.Tokens.LoadProfile(s.ctx)
	s.Require().NoError(err)
	s.Equal(view.User.ID, cached.ID)
}

func (s *ControllerSuite) TestStatsArePlaceholderZeros() {
	s.signIn()

	view := s.controller.Page(s.ctx, s.browser, false)

	s.Zero(view.Stats.TotalGames)
	s.Zero(view.Stats.HighScore)
	s.Zero(view.Stats.AverageScore())
}

func (s *ControllerSuite) TestUnauthorizedClearsTokenAndRedirects() {
	s.signIn()
	s.api.Clock.Advance(25 * time.Hour)

	view := s.controller.Page(s.ctx, s.browser, false)

	s.Equal(LoginPath, view.Redirect)
	s.Nil(view.User)
	s.False(s.browser.Tokens.Exists(s.ctx))
	s.False(s.browser.Store.State().Auth.IsLoggedIn)
	_, err := s.browser.Tokens.LoadProfile(s.ctx)
	s.ErrorIs(err, tokenstore.ErrNoProfile)
}

func (s *ControllerSuite) TestServerErrorStaysOnPage() {
	s.signIn()
	s.api.Fail("GET /api/profile", http.StatusInternalServerError, "Error interno del servidor")

	view := s.controller.Page(s.ctx, s.browser, false)

	s.Equal(MsgFetchFailed, view.Error)
	s.Empty(view.Redirect)
	s.True(s.browser.Tokens.Exists(s.ctx))
}

func (s *ControllerSuite) TestUpdateDisplayNameRefetches() {
	s.signIn()

	view := s.controller.UpdateDisplayName(s.ctx, s.browser, "Rex the Brave")

	s.Equal(MsgUpdated, view.Success)
	s.False(view.Editing)
	s.Require().NotNil(view.User)
	s.Equal("Rex the Brave", view.User.DisplayName)
	s.Equal("Rex the Brave", s.browser.Store.State().Profile.DisplayName)
}

func (s *ControllerSuite) TestUpdateDisplayNameRejectsEmpty() {
	s.signIn()
	calls := s.api.Calls()

	view := s.controller.UpdateDisplayName(s.ctx, s.browser, "")

	s.Equal(MsgNameRequired, view.Error)
	s.True(view.Editing)
	s.Equal(calls+1, s.api.Calls(), "only the refetch reaches the API")
}

func (s *ControllerSuite) TestUpdateDisplayNameFailureKeepsEditing() {
	s.signIn()
	s.api.Fail("PUT /api/profile", http.StatusInternalServerError, "boom")

	view := s.controller.UpdateDisplayName(s.ctx, s.browser, "Rex the Brave")

	s.Equal(MsgUpdateFailed, view.Error)
	s.True(view.Editing)
	s.Equal("rex", view.User.Name())
}

func (s *ControllerSuite) TestUpdateWithoutTokenRedirects() {
	view := s.controller.UpdateDisplayName(s.ctx, s.browser, "Rex the Brave")

	s.Equal(LoginPath, view.Redirect)
	s.Zero(s.api.Calls())
}
