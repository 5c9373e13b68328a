package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Slot operations

func (s *Storage) GetSlot(ctx context.Context, sid, name string) (string, error) {
	value, err := s.client.HGet(ctx, browserKey(sid), name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrSlotNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *Storage) SetSlot(ctx context.Context, sid, name, value string) error {
	key := browserKey(sid)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, name, value)
	if s.cfg.SlotTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.SlotTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) DeleteSlot(ctx context.Context, sid, name string) error {
	return s.client.HDel(ctx, browserKey(sid), name).Err()
}

func (s *Storage) DeleteSlots(ctx context.Context, sid string) error {
	return s.client.Del(ctx, browserKey(sid)).Err()
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Drop stale index entries when the email or username changed
	prev, err := s.GetAccount(ctx, account.ID)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	if prev != nil {
		pipe.Del(ctx, emailIndexKey(prev.Email), usernameIndexKey(prev.Username))
	}
	pipe.Set(ctx, accountKey(account.ID), data, 0) // No TTL
	pipe.Set(ctx, emailIndexKey(account.Email), string(account.ID), 0)
	pipe.Set(ctx, usernameIndexKey(account.Username), string(account.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.UserID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.getByIndex(ctx, emailIndexKey(email))
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.getByIndex(ctx, usernameIndexKey(username))
}

func (s *Storage) getByIndex(ctx context.Context, indexKey string) (*model.Account, error) {
	id, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.UserID(id))
}
