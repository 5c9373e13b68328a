package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bvzombies/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SlotTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Slot tests

func (s *StorageSuite) TestSetAndGetSlot() {
	s.Require().NoError(s.storage.SetSlot(s.ctx, "b1", "token", "abc123"))

	value, err := s.storage.GetSlot(s.ctx, "b1", "token")
	s.Require().NoError(err)
	s.Equal("abc123", value)
}

func (s *StorageSuite) TestGetSlotNotFound() {
	_, err := s.storage.GetSlot(s.ctx, "b1", "token")
	s.ErrorIs(err, model.ErrSlotNotFound)
}

func (s *StorageSuite) TestSlotTTLApplied() {
	_ = s.storage.SetSlot(s.ctx, "b1", "token", "abc123")

	ttl := s.mini.TTL(browserKey("b1"))
	s.Equal(time.Hour, ttl)

	s.mini.FastForward(2 * time.Hour)
	_, err := s.storage.GetSlot(s.ctx, "b1", "token")
	s.ErrorIs(err, model.ErrSlotNotFound)
}

func (s *StorageSuite) TestDeleteSlot() {
	_ = s.storage.SetSlot(s.ctx, "b1", "token", "abc123")
	_ = s.storage.SetSlot(s.ctx, "b1", "profile", "{}")

	s.Require().NoError(s.storage.DeleteSlot(s.ctx, "b1", "token"))
	s.Require().NoError(s.storage.DeleteSlot(s.ctx, "b1", "token"))

	_, err := s.storage.GetSlot(s.ctx, "b1", "token")
	s.ErrorIs(err, model.ErrSlotNotFound)
	profile, err := s.storage.GetSlot(s.ctx, "b1", "profile")
	s.Require().NoError(err)
	s.Equal("{}", profile)
}

func (s *StorageSuite) TestDeleteSlots() {
	_ = s.storage.SetSlot(s.ctx, "b1", "token", "abc123")

	s.Require().NoError(s.storage.DeleteSlots(s.ctx, "b1"))
	s.False(s.mini.Exists(browserKey("b1")))
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		User:         model.User{ID: "u-1", Username: "rex", Email: "rex@example.com", Age: 20},
		PasswordHash: "hash",
	}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	byID, err := s.storage.GetAccount(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Equal(20, byID.Age)
	s.Equal("hash", byID.PasswordHash)

	byEmail, err := s.storage.GetAccountByEmail(s.ctx, "Rex@Example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("u-1"), byEmail.ID)

	byName, err := s.storage.GetAccountByUsername(s.ctx, "REX")
	s.Require().NoError(err)
	s.Equal(model.UserID("u-1"), byName.ID)
}

func (s *StorageSuite) TestSaveAccountReindexesUsername() {
	_ = s.storage.SaveAccount(s.ctx, &model.Account{User: model.User{ID: "u-1", Username: "rex", Email: "a@b.co"}})
	_ = s.storage.SaveAccount(s.ctx, &model.Account{User: model.User{ID: "u-1", Username: "rexy", Email: "a@b.co"}})

	_, err := s.storage.GetAccountByUsername(s.ctx, "rex")
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetAccountByUsername(s.ctx, "rexy")
	s.NoError(err)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nope")
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetAccountByEmail(s.ctx, "nope@b.co")
	s.ErrorIs(err, model.ErrUserNotFound)
}
