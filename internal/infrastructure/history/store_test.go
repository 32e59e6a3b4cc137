package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

func exerciseRepository(t *testing.T, repo ports.AnalysisRepository) {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(domain.AnalysisRecord{
		Timestamp: base,
		Command:   "ls /nonexistent",
		ExitCode:  2,
		Model:     "deepseek",
		Cause:     "missing directory",
		Fix:       "mkdir -p /nonexistent",
		Succeeded: true,
	}))
	require.NoError(t, repo.Save(domain.AnalysisRecord{
		Timestamp: base.Add(time.Minute),
		Command:   "gti status",
		ExitCode:  127,
		FromCache: true,
	}))

	records, err := repo.Records(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "gti status", records[0].Command)
	assert.True(t, records[0].FromCache)
	assert.Equal(t, "ls /nonexistent", records[1].Command)
	assert.Equal(t, "mkdir -p /nonexistent", records[1].Fix)
	assert.True(t, records[1].Succeeded)
	assert.True(t, base.Equal(records[1].Timestamp))
	assert.NotEmpty(t, records[1].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)

	limited, err := repo.Records(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.Clear())
	records, err = repo.Records(0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseRepository(t, store)
}

func TestFileStoreRoundTrip(t *testing.T) {
	exerciseRepository(t, NewFileStore(filepath.Join(t.TempDir(), "history.jsonl")))
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n{\"command\":\"ls\"}\n"), 0o600))

	records, err := NewFileStore(path).Records(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ls", records[0].Command)
}

func TestOpenFallsBackToFileStore(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	repo := Open(filepath.Join(blocker, "history.db"))
	_, isFile := repo.(*FileStore)
	assert.True(t, isFile)
}
