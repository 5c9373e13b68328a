package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bvzombies/internal/dependencies/mocks"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/session"
	"github.com/mcoot/bvzombies/internal/storage/memory"
	"github.com/mcoot/bvzombies/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	timers  *session.Timers
	manager *Manager
	ctx     context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
	s.timers = session.NewTimers(s.clock)
	s.manager = NewManager(s.storage, s.timers, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ManagerSuite) signIn(b *Browser) {
	user := &model.User{ID: "u-1", Username: "rex"}
	s.Require().NoError(b.Tokens.Set(s.ctx, "abc123"))
	s.Require().NoError(b.Tokens.SaveProfile(s.ctx, user))
	s.Require().NoError(b.Store.Dispatch(session.LoginSuccess{
		Token:            "abc123",
		SessionExpiresAt: s.clock.Now().Add(time.Hour),
		Profile:          session.PatchFromUser(user),
	}))
}

func (s *ManagerSuite) TestOpenSharesStore() {
	a := s.manager.Open(s.ctx, "browser-1")
	b := s.manager.Open(s.ctx, "browser-1")
	other := s.manager.Open(s.ctx, "browser-2")

	s.Same(a.Store, b.Store)
	s.NotSame(a.Store, other.Store)
}

func (s *ManagerSuite) TestSaveAndReload() {
	b := s.manager.Open(s.ctx, "browser-1")
	s.Require().NoError(b.Store.Dispatch(session.LoginSuccess{Token: "abc123", SessionExpiresAt: s.clock.Now().Add(time.Hour)}))
	s.manager.Save(s.ctx, b)

	reloaded := NewManager(s.storage, s.timers, testutil.NopLogger()).Open(s.ctx, "browser-1")
	s.Equal("abc123", reloaded.Store.State().Auth.Token)
}

func (s *ManagerSuite) TestLoggedInFollowsTokenSlot() {
	b := s.manager.Open(s.ctx, "browser-1")
	s.Require().NoError(b.Store.Dispatch(session.LoginSuccess{Token: "abc123", SessionExpiresAt: s.clock.Now().Add(time.Hour)}))
	s.False(b.LoggedIn(s.ctx))
	s.False(b.Store.State().Auth.IsLoggedIn)

	s.Require().NoError(b.Tokens.Set(s.ctx, "abc123"))
	s.True(b.LoggedIn(s.ctx))
}

func (s *ManagerSuite) TestOpenExpiresElapsedSession() {
	b := s.manager.Open(s.ctx, "browser-1")
	s.signIn(b)
	s.Require().True(b.LoggedIn(s.ctx))

	s.clock.Advance(25 * time.Hour)
	b = s.manager.Open(s.ctx, "browser-1")

	s.False(b.Tokens.Exists(s.ctx))
	_, err := b.Tokens.LoadProfile(s.ctx)
	s.Error(err)
	s.False(b.LoggedIn(s.ctx))

	state := b.Store.State()
	s.Empty(state.Auth.Token)
	s.Nil(state.Auth.SessionExpiresAt)
	s.Equal("rex", state.Profile.Username)
}

func (s *ManagerSuite) TestOpenKeepsLiveSession() {
	b := s.manager.Open(s.ctx, "browser-1")
	s.signIn(b)

	s.clock.Advance(30 * time.Minute)
	b = s.manager.Open(s.ctx, "browser-1")

	s.True(b.Tokens.Exists(s.ctx))
	s.True(b.LoggedIn(s.ctx))
}

func (s *ManagerSuite) TestExpireClearsBothSlots() {
	b := s.manager.Open(s.ctx, "browser-1")
	s.signIn(b)

	s.Require().NoError(b.Expire(s.ctx))

	s.False(b.Tokens.Exists(s.ctx))
	_, err := b.Tokens.LoadProfile(s.ctx)
	s.Error(err)
	s.False(b.Store.State().Auth.IsLoggedIn)
}

func (s *ManagerSuite) TestEvictDropsIdleStores() {
	idle := s.manager.Open(s.ctx, "browser-1")
	s.Require().NoError(idle.Store.Dispatch(session.ToggleShowPassword{}))
	s.manager.Save(s.ctx, idle)

	s.clock.Advance(2 * time.Hour)
	active := s.manager.Open(s.ctx, "browser-2")
	s.Equal(2, s.manager.Cached())

	s.Equal(1, s.manager.Evict(time.Hour))
	s.Equal(1, s.manager.Cached())
	s.Same(active.Store, s.manager.Open(s.ctx, "browser-2").Store)

	reloaded := s.manager.Open(s.ctx, "browser-1")
	s.NotSame(idle.Store, reloaded.Store)
	s.True(reloaded.Store.State().Auth.ShowPassword, "evicted state is reloaded from storage")
}

func (s *ManagerSuite) TestForgetDropsEverything() {
	b := s.manager.Open(s.ctx, "browser-1")
	_ = b.Tokens.Set(s.ctx, "abc123")
	s.manager.Save(s.ctx, b)

	s.Require().NoError(s.manager.Forget(s.ctx, "browser-1"))

	fresh := s.manager.Open(s.ctx, "browser-1")
	s.False(fresh.Tokens.Exists(s.ctx))
	s.Equal(session.Initial(), fresh.Store.State())
}
