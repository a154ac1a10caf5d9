package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKVRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "therapie.db")

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer kv.Close()

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("k", "v1"))
	value, ok, err := kv.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", value)

	// Set replaces
	require.NoError(t, kv.Set("k", "v2"))
	value, _, err = kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)

	require.NoError(t, kv.Delete("k"))
	_, ok, err = kv.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is a no-op
	require.NoError(t, kv.Delete("k"))
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "therapie.db")

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	require.NoError(t, kv.Set("k", "v"))
	require.NoError(t, kv.Close())

	kv, err = NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer kv.Close()

	value, ok, err := kv.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestSQLiteKVStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "therapie.db")

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set("a", "1"))
	require.NoError(t, kv.Set("b", "2"))

	stats, err := kv.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.RecordCount)
	assert.Greater(t, stats.DBSizeBytes, int64(0))
}

func TestStoreOverSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "therapie.db")

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer kv.Close()

	s := New(kv)
	user := User{ID: "u1", Username: "alice"}
	require.NoError(t, s.SetSession(user))

	got, ok := s.GetSession()
	require.True(t, ok)
	assert.Equal(t, user, got)
}
