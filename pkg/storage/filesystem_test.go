package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveRead(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("analysis/job-1.xlsx", []byte("book"))
	require.NoError(t, err)
	assert.Equal(t, "analysis/job-1.xlsx", name)

	body, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("book"), body)

	entries, err := os.ReadDir(filepath.Join(store.baseDir, "analysis"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = store.Read("analysis/missing.xlsx")
	assert.ErrorIs(t, err, ErrNotStored)
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../outside.xlsx", "/etc/passwd", "a/../../b"} {
		_, err := store.Save(name, []byte("x"))
		assert.Error(t, err, name)
		_, err = store.Read(name)
		assert.Error(t, err, name)
	}
}

func TestLocalStorageCleanup(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("analysis/old.xlsx", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("analysis/new.xlsx", []byte("new"))
	require.NoError(t, err)
	partial := filepath.Join(store.baseDir, "analysis", ".partial-123")
	require.NoError(t, os.WriteFile(partial, []byte("x"), 0o644))

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(store.baseDir, "analysis", "old.xlsx"), past, past))

	removed, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("analysis", "old.xlsx")}, removed)

	_, err = os.Stat(partial)
	assert.True(t, os.IsNotExist(err))
	_, err = store.Read("analysis/new.xlsx")
	assert.NoError(t, err)
}
