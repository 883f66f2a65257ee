package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the session as a JSON file, mirroring how the
// original client kept it in browser storage: written on login, read back
// on every start, removed on logout.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path. Parent
// directories are created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load rehydrates the session from disk. A missing file means no session.
func (f *FileStore) Load(_ context.Context) (Session, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parse session file: %w", err)
	}
	if !s.Present() {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Save writes the session to disk with owner-only permissions.
func (f *FileStore) Save(_ context.Context, s Session) error {
	if !s.Present() {
		return fmt.Errorf("refusing to save partial session")
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (f *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
