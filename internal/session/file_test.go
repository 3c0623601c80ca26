package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripkit/internal/domain"
	"github.com/pkordes/tripkit/internal/session"
)

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	fs := session.NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	user := domain.User{ID: "u-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleAdmin}

	require.NoError(t, fs.Save("tok-1", user))

	token, got, ok, err := fs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, user, got)
}

func TestFileStore_Load_MissingFile(t *testing.T) {
	fs := session.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	_, _, ok, err := fs.Load()

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_Load_PartialState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	// Token without a user: half a session is no session.
	require.NoError(t, writeFile(path, `{"token":"tok-1"}`))

	_, _, ok, err := session.NewFileStore(path).Load()

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_Clear_RemovesFileAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs := session.NewFileStore(path)
	require.NoError(t, fs.Save("tok-1", domain.User{ID: "u-1", FirstName: "A", LastName: "B", Email: "a@b.c", Role: domain.RoleUser}))

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_Save_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs := session.NewFileStore(path)
	require.NoError(t, fs.Save("tok-1", domain.User{ID: "u-1", FirstName: "A", LastName: "B", Email: "a@b.c", Role: domain.RoleUser}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	// The file holds a live credential; nobody else on the machine reads it.
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
