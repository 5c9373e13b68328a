package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcoot/bvzombies/internal/model"
)

// FileStore keeps the token in a file, and the profile blob in profile.json
// next to it. Used by the CLI.
type FileStore struct {
	path string
}

var (
	_ Store        = (*FileStore)(nil)
	_ ProfileCache = (*FileStore)(nil)
)

// NewFileStore creates a token store backed by the given token file
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the token file path
func (f *FileStore) Path() string {
	return f.path
}

// Get returns the stored token or ErrNoToken
func (f *FileStore) Get(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", err
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Exists reports whether a token is stored
func (f *FileStore) Exists(ctx context.Context) bool {
	_, err := f.Get(ctx)
	return err == nil
}

// Set writes the token file with owner-only permissions
func (f *FileStore) Set(ctx context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0o600)
}

// Clear removes the token file
func (f *FileStore) Clear(ctx context.Context) error {
	return removeIfExists(f.path)
}

// SaveProfile writes profile.json
func (f *FileStore) SaveProfile(ctx context.Context, user *model.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.profilePath(), data, 0o600)
}

// LoadProfile reads profile.json or returns ErrNoProfile
func (f *FileStore) LoadProfile(ctx context.Context) (*model.User, error) {
	data, err := os.ReadFile(f.profilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoProfile
		}
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ClearProfile removes profile.json
func (f *FileStore) ClearProfile(ctx context.Context) error {
	return removeIfExists(f.profilePath())
}

func (f *FileStore) profilePath() string {
	return filepath.Join(filepath.Dir(f.path), "profile.json")
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
