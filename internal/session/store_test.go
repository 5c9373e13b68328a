package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bvzombies/internal/dependencies/mocks"
	"github.com/mcoot/bvzombies/internal/storage/memory"
	"github.com/mcoot/bvzombies/internal/tokenstore"
)

type StoreSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	timers *Timers
	store  *Store
	ctx    context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.timers = NewTimers(s.clock)
	s.store = NewStore(Initial())
	s.ctx = context.Background()
}

// Store tests

func (s *StoreSuite) TestDispatchUnknownLeavesStateUnchanged() {
	s.Require().NoError(s.store.Dispatch(LoginFailure{Error: "bad"}))
	before := s.store.State()

	err := s.store.Dispatch(nil)

	s.ErrorIs(err, ErrUnknownAction)
	s.Equal(before, s.store.State())
}

func (s *StoreSuite) TestLoggedInFollowsToken() {
	s.False(s.store.LoggedIn(false))
	s.True(s.store.LoggedIn(true))
}

func (s *StoreSuite) TestLoggedInExpiresStaleState() {
	s.Require().NoError(s.store.Dispatch(LoginSuccess{Token: "abc123", SessionExpiresAt: s.clock.Now()}))

	s.False(s.store.LoggedIn(false))

	state := s.store.State()
	s.False(state.Auth.IsLoggedIn)
	s.Empty(state.Auth.Token)
}

// Timer tests

func (s *StoreSuite) TestBlocksAfterMaxAttempts() {
	for i := 0; i < DefaultMaxLoginAttempts-1; i++ {
		s.Require().NoError(s.store.Dispatch(LoginFailure{Error: "bad"}))
		blocked, err := s.timers.AfterFailure(s.store)
		s.Require().NoError(err)
		s.False(blocked)
	}

	s.Require().NoError(s.store.Dispatch(LoginFailure{Error: "bad"}))
	blocked, err := s.timers.AfterFailure(s.store)
	s.Require().NoError(err)
	s.True(blocked)

	state := s.store.State()
	s.True(state.Auth.IsBlocked)
	s.Equal(s.clock.Now().Add(DefaultBlockDuration), *state.Auth.BlockExpiresAt)
	s.Equal(DefaultBlockDuration, s.timers.BlockRemaining(state))
}

func (s *StoreSuite) TestCheckUnblocksAfterExpiry() {
	s.Require().NoError(s.store.Dispatch(BlockLogin{ExpiresAt: s.clock.Now().Add(DefaultBlockDuration)}))

	s.clock.Advance(DefaultBlockDuration)
	_, err := s.timers.Check(s.store)
	s.Require().NoError(err)
	s.True(s.store.State().Auth.IsBlocked, "block holds until strictly after expiry")

	s.clock.Advance(time.Second)
	expired, err := s.timers.Check(s.store)
	s.Require().NoError(err)
	s.False(expired)
	s.False(s.store.State().Auth.IsBlocked)
	s.Zero(s.timers.BlockRemaining(s.store.State()))
}

func (s *StoreSuite) TestCheckExpiresSession() {
	s.Require().NoError(s.store.Dispatch(LoginSuccess{Token: "abc123", SessionExpiresAt: s.clock.Now().Add(time.Hour)}))

	expired, err := s.timers.Check(s.store)
	s.Require().NoError(err)
	s.False(expired)
	s.True(s.store.State().Auth.IsLoggedIn)

	s.clock.Advance(2 * time.Hour)
	expired, err = s.timers.Check(s.store)
	s.Require().NoError(err)
	s.True(expired)
	s.False(s.store.State().Auth.IsLoggedIn)

	expired, err = s.timers.Check(s.store)
	s.Require().NoError(err)
	s.False(expired, "an already expired session is not reported twice")
}

func (s *StoreSuite) TestSessionExpiryReadsExpClaim() {
	// {"alg":"HS256","typ":"JWT"}.{"user_id":"u-1","exp":1704200400}
	token := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoidS0xIiwiZXhwIjoxNzA0MjAwNDAwfQ.sig"

	s.Equal(time.Unix(1704200400, 0).UTC(), s.timers.SessionExpiry(token).UTC())
}

func (s *StoreSuite) TestSessionExpiryFallsBack() {
	s.Equal(s.clock.Now().Add(DefaultSessionTTL), s.timers.SessionExpiry("opaque-token"))
}

// Snapshot tests

func (s *StoreSuite) TestSnapshotRoundTrip() {
	st := memory.New()
	snapshots := NewSnapshots(st)
	s.Require().NoError(s.store.Dispatch(SetAuthField{Field: FieldPassword, Value: "zombies1"}))
	s.Require().NoError(s.store.Dispatch(LoginSuccess{Token: "abc123", SessionExpiresAt: s.clock.Now()}))

	s.Require().NoError(snapshots.Save(s.ctx, "browser-1", s.store.State()))
	loaded, err := snapshots.Load(s.ctx, "browser-1")
	s.Require().NoError(err)

	s.Equal("abc123", loaded.Auth.Token)
	s.Empty(loaded.Auth.Password, "password buffer is never persisted")
	s.True(loaded.Profile.IsOnline)

	raw, err := st.GetSlot(s.ctx, "browser-1", tokenstore.SlotState)
	s.Require().NoError(err)
	s.NotContains(raw, "zombies1")
}

func (s *StoreSuite) TestSnapshotMissingIsInitial() {
	loaded, err := NewSnapshots(memory.New()).Load(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(Initial(), loaded)
}
