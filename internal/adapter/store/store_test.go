package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

func newTestBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStore_ReadWrite(t *testing.T) {
	s := newTestBoltStore(t)

	_, err := s.Read("missing")
	assert.ErrorIs(t, err, port.ErrCacheMiss)

	require.NoError(t, s.Write("k", []byte(`{"a":1}`)))
	data, err := s.Read("k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(7), stats.Bytes)

	require.NoError(t, s.Delete("k"))
	_, err = s.Read("k")
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}

func TestBoltStore_Clear(t *testing.T) {
	s := newTestBoltStore(t)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Write(k, []byte(k)))
	}

	require.NoError(t, s.Clear())

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestBoltStore_Migration(t *testing.T) {
	s := newTestBoltStore(t)

	result, err := s.CheckMigration("docs/3+abc")
	require.NoError(t, err)
	assert.True(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)

	require.NoError(t, s.Migrate("docs/3+abc"))
	info, err := s.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
	assert.Equal(t, "docs/3+abc", info.Marker)

	result, err = s.CheckMigration("docs/3+abc")
	require.NoError(t, err)
	assert.False(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)

	result, err = s.CheckMigration("docs/4+abc")
	require.NoError(t, err)
	assert.True(t, result.NeedsRebuild)
	assert.Equal(t, "engine marker changed", result.Reason)
}

func TestBoltStore_PrepareClearsOnMarkerChange(t *testing.T) {
	s := newTestBoltStore(t)

	cleared, err := s.Prepare("v1")
	require.NoError(t, err)
	assert.False(t, cleared)
	require.NoError(t, s.Write("k", []byte("x")))

	cleared, err = s.Prepare("v1")
	require.NoError(t, err)
	assert.False(t, cleared)
	_, err = s.Read("k")
	require.NoError(t, err)

	cleared, err = s.Prepare("v2")
	require.NoError(t, err)
	assert.True(t, cleared)
	_, err = s.Read("k")
	assert.ErrorIs(t, err, port.ErrCacheMiss)

	info, err := s.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, "v2", info.Marker)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "entries")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.Read("abc123")
	assert.ErrorIs(t, err, port.ErrCacheMiss)

	require.NoError(t, s.Write("abc123", []byte("first")))
	require.NoError(t, s.Write("abc123", []byte("second")))
	data, err := s.Read("abc123")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)

	assert.Error(t, s.Write("../escape", []byte("x")))

	require.NoError(t, s.Clear())
	_, err = s.Read("abc123")
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}
