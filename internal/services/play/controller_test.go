package play

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bvzombies/internal/dependencies/clock"
	"github.com/mcoot/bvzombies/internal/game"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/session"
	"github.com/mcoot/bvzombies/internal/storage/memory"
	"github.com/mcoot/bvzombies/internal/testutil"
	"github.com/mcoot/bvzombies/internal/testutil/apitest"
)

type ControllerSuite struct {
	suite.Suite
	api        *apitest.Server
	mounts     *game.Mounts
	controller *Controller
	browser    *browser.Browser
	ctx        context.Context

	mu     sync.Mutex
	scenes map[string][]any
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.api = apitest.New(s.T())
	s.scenes = make(map[string][]any)
	s.mounts = game.NewMounts(nil, func(sid string, scene any) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.scenes[sid] = append(s.scenes[sid], scene)
	}, testutil.NopLogger())
	s.controller = New(s.api.Client(), s.mounts, testutil.NopLogger())
	s.browser = browser.NewManager(memory.New(), session.NewTimers(clock.New()), testutil.NopLogger()).Open(context.Background(), "sid-1")
	s.ctx = context.Background()
}

func (s *ControllerSuite) signIn() {
	s.Require().NoError(s.browser.Tokens.Set(s.ctx, s.api.Token(s.T(), apitest.Rex())))
}

func (s *ControllerSuite) instance() *game.Instance {
	mount, ok := s.mounts.Get("sid-1")
	s.Require().True(ok)
	inst, ok := mount.Handle().Engine().(*game.Instance)
	s.Require().True(ok)
	return inst
}

func (s *ControllerSuite) TestNoTokenRedirects() {
	view := s.controller.Enter(s.ctx, s.browser)

	s.Equal(LoginPath, view.Redirect)
	s.Zero(s.api.Calls())
	s.Zero(s.mounts.Refs("sid-1"))
}

func (s *ControllerSuite) TestEnterMountsAndBoots() {
	s.signIn()

	view := s.controller.Enter(s.ctx, s.browser)

	s.Empty(view.Redirect)
	s.Empty(view.Error)
	s.Equal(game.ContainerID, view.ContainerID)
	s.Require().NotNil(view.Boot)
	s.True(view.Boot.GameData.Authorized)
	s.Equal("rex", view.Boot.Profile.Username)
	s.Equal(1, s.mounts.Refs("sid-1"))

	boot := s.instance().Boot()
	s.Require().NotNil(boot)
	s.Equal(view.Boot.Profile.ID, boot.Profile.ID)
	s.Equal("rex", s.browser.Store.State().Profile.Username)
}

func (s *ControllerSuite) TestUnauthorizedGrantRedirects() {
	s.signIn()
	s.api.Fail("GET /api/game", http.StatusOK, "no game for you")

	view := s.controller.Enter(s.ctx, s.browser)

	s.Equal(LoginPath, view.Redirect)
	s.Zero(s.mounts.Refs("sid-1"))
}

func (s *ControllerSuite) TestExpiredSessionRedirects() {
	s.signIn()
	s.api.Clock.Advance(25 * time.Hour)

	view := s.controller.Enter(s.ctx, s.browser)

	s.Equal(LoginPath, view.Redirect)
	s.False(s.browser.Tokens.Exists(s.ctx))
	s.Zero(s.mounts.Refs("sid-1"))
}

func (s *ControllerSuite) TestServerErrorShowsMessage() {
	s.signIn()
	s.api.Fail("GET /api/game", http.StatusInternalServerError, "boom")

	view := s.controller.Enter(s.ctx, s.browser)

	s.Equal(MsgAccessFailed, view.Error)
	s.Empty(view.Redirect)
	s.True(s.browser.Tokens.Exists(s.ctx))
}

func (s *ControllerSuite) TestSceneReadyForwards() {
	s.signIn()
	s.controller.Enter(s.ctx, s.browser)

	s.Require().NoError(s.controller.SceneReady("sid-1", "MainMenu"))

	s.Equal(game.Scene{Key: "MainMenu"}, s.controller.Scene("sid-1"))
	s.Equal([]any{game.Scene{Key: "MainMenu"}}, s.scenes["sid-1"])
}

func (s *ControllerSuite) TestSceneReadyWithoutMount() {
	s.ErrorIs(s.controller.SceneReady("sid-1", "MainMenu"), ErrNotMounted)
	s.Nil(s.controller.Scene("sid-1"))
}

func (s *ControllerSuite) TestReentryKeepsOneEngine() {
	s.signIn()
	s.controller.Enter(s.ctx, s.browser)
	first := s.instance()

	s.controller.Enter(s.ctx, s.browser)
	s.Equal(2, s.mounts.Refs("sid-1"))
	s.Same(first, s.instance())

	s.Require().NoError(s.controller.Leave("sid-1"))
	s.False(first.Destroyed())

	s.Require().NoError(s.controller.Leave("sid-1"))
	s.True(first.Destroyed())
	_, ok := s.mounts.Get("sid-1")
	s.False(ok)
}

func (s *ControllerSuite) TestCloseDestroysRegardlessOfRefs() {
	s.signIn()
	s.controller.Enter(s.ctx, s.browser)
	s.controller.Enter(s.ctx, s.browser)
	inst := s.instance()

	s.Require().NoError(s.controller.Close("sid-1"))

	s.True(inst.Destroyed())
	s.Zero(s.mounts.Refs("sid-1"))
}
