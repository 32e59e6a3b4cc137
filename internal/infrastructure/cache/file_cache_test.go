package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shellsage/internal/domain"
)

func TestKeyIsStableAndDistinct(t *testing.T) {
	a := Key("ls /x", "No such file", "deepseek")
	assert.Equal(t, a, Key("ls /x", "No such file", "deepseek"))
	assert.NotEqual(t, a, Key("ls /x", "No such file", "claude"))
	assert.NotEqual(t, a, Key("ls /y", "No such file", "deepseek"))
	assert.Len(t, a, 64)
}

func TestSetAndGet(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "cache"), time.Hour, 10)
	key := Key("gti status", "command not found", "offline")

	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(domain.CacheEntry{Key: key, Command: "gti status", Response: "🔍 Root Cause: typo", Model: "offline"}))
	entry, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "🔍 Root Cause: typo", entry.Response)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, 1, c.Len())
}

func TestExpiredEntriesAreMisses(t *testing.T) {
	c := NewFileCache(t.TempDir(), time.Minute, 10)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(domain.CacheEntry{Key: "k", Response: "r"}))
	now = now.Add(2 * time.Minute)

	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestEvictionKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	c := NewFileCache(dir, time.Hour, 2)
	for i, key := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(domain.CacheEntry{Key: key, Response: key}))
		mod := time.Now().Add(time.Duration(i-10) * time.Minute)
		require.NoError(t, os.Chtimes(filepath.Join(dir, key+".json"), mod, mod))
	}
	require.NoError(t, c.Set(domain.CacheEntry{Key: "d", Response: "d"}))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get("d")
	assert.True(t, ok)
	_, ok, _ = c.Get("a")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "cache"), time.Hour, 10)
	require.NoError(t, c.Set(domain.CacheEntry{Key: "k"}))
	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}
