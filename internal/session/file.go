package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkordes/tripkit/internal/domain"
)

// FileStore persists the session as a single JSON file, the CLI analog of the
// browser's key-value storage. Keeping token and user in one file is what
// guarantees they can only ever be written and erased together.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path. Parent directories are
// created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// fileState is the on-disk shape. Exactly two entries, mirroring the
// original's "token" and "user" storage keys.
type fileState struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Save writes the session atomically: marshal, write a temp file next to the
// target, then rename. A crash mid-write leaves either the old state or the
// new one, never a torn file. Mode 0600 — the file holds a live credential.
func (f *FileStore) Save(token string, user domain.User) error {
	data, err := json.MarshalIndent(fileState{Token: token, User: &user}, "", "  ")
	if err != nil {
		return fmt.Errorf("session.FileStore.Save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session.FileStore.Save: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session.FileStore.Save: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("session.FileStore.Save: %w", err)
	}
	return nil
}

// Load reads the persisted session. A missing, unreadable, or partial state
// file yields ok=false with no error — restore treats it as "not signed in"
// rather than crashing on stale local state.
func (f *FileStore) Load() (string, domain.User, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.User{}, false, nil
		}
		return "", domain.User{}, false, fmt.Errorf("session.FileStore.Load: %w", err)
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		// Corrupt state file: treat as signed out. The next login rewrites it.
		return "", domain.User{}, false, nil
	}
	if st.Token == "" || st.User == nil {
		// Half a session is no session.
		return "", domain.User{}, false, nil
	}
	return st.Token, *st.User, true, nil
}

// Clear removes the state file. Clearing an already-empty store is a no-op.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session.FileStore.Clear: %w", err)
	}
	return nil
}
