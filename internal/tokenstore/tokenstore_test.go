package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/storage/memory"
)

// Each backend must satisfy the same contract
func backends(t *testing.T) map[string]interface {
	Store
	ProfileCache
} {
	return map[string]interface {
		Store
		ProfileCache
	}{
		"slot": NewSlotStore(memory.New(), "browser-1"),
		"file": NewFileStore(filepath.Join(t.TempDir(), "bvz", "token")),
	}
}

func TestEmptyStore(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx)
			assert.ErrorIs(t, err, ErrNoToken)
			assert.False(t, s.Exists(ctx))
		})
	}
}

func TestSetGetExists(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "abc123"))

			token, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "abc123", token)
			assert.True(t, s.Exists(ctx))
		})
	}
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "abc123"))
			require.NoError(t, s.Clear(ctx))
			require.NoError(t, s.Clear(ctx))
			assert.False(t, s.Exists(ctx))
		})
	}
}

func TestProfileBlob(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.LoadProfile(ctx)
			assert.ErrorIs(t, err, ErrNoProfile)

			user := &model.User{ID: "u-1", Username: "rex", Email: "rex@example.com"}
			require.NoError(t, s.SaveProfile(ctx, user))

			loaded, err := s.LoadProfile(ctx)
			require.NoError(t, err)
			assert.Equal(t, user.Username, loaded.Username)

			require.NoError(t, s.ClearProfile(ctx))
			_, err = s.LoadProfile(ctx)
			assert.ErrorIs(t, err, ErrNoProfile)
		})
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	s := NewFileStore(path)
	require.NoError(t, s.Set(context.Background(), "abc123"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("abc123\n"), 0o600))

	token, err := NewFileStore(path).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}
