package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal/buffer"
	"github.com/tuannm99/pagedb/internal/storage"
)

func newTestPool(t *testing.T, capacity int) *buffer.Pool {
	t.Helper()
	dm, err := storage.NewLocalDiskManager(t.TempDir(), storage.DefaultPageSize)
	require.NoError(t, err)
	rep, err := buffer.NewReplacer("LRUReplacer", 2)
	require.NoError(t, err)
	return buffer.NewPool(dm, storage.DefaultPageSize, capacity, rep)
}

func TestPinEvictScenario(t *testing.T) {
	pool := newTestPool(t, 2)

	p0, err := pool.FetchPage(1, 0)
	require.NoError(t, err)
	p1, err := pool.FetchPage(1, 1)
	require.NoError(t, err)
	require.NotNil(t, p0)
	require.NotNil(t, p1)

	_, err = pool.FetchPage(1, 2)
	require.ErrorIs(t, err, storage.ErrNoFreeFrame)

	require.True(t, pool.UnpinPage(1, 0, false))
	p2, err := pool.FetchPage(1, 2)
	require.NoError(t, err)
	require.NotNil(t, p2)
}

func TestDirtyWriteBackOnlyOnEviction(t *testing.T) {
	dir := t.TempDir()
	dm, err := storage.NewLocalDiskManager(dir, storage.DefaultPageSize)
	require.NoError(t, err)
	rep, err := buffer.NewReplacer("LRUReplacer", 2)
	require.NoError(t, err)
	pool := buffer.NewPool(dm, storage.DefaultPageSize, 1, rep)

	p0, err := pool.FetchPage(1, 0)
	require.NoError(t, err)
	p0.Buf[100] = 0xFF
	require.True(t, pool.UnpinPage(1, 0, true))

	_, err = pool.FetchPage(1, 1)
	require.NoError(t, err)

	got := make([]byte, storage.DefaultPageSize)
	require.NoError(t, dm.ReadPage(1, 0, got))
	require.Equal(t, byte(0xFF), got[100])
}

func TestUnpinNonResidentReturnsFalse(t *testing.T) {
	pool := newTestPool(t, 2)
	require.False(t, pool.UnpinPage(1, 0, false))
}

func TestDeletePagePinnedFails(t *testing.T) {
	pool := newTestPool(t, 2)
	_, err := pool.FetchPage(1, 0)
	require.NoError(t, err)

	ok, err := pool.DeletePage(1, 0)
	require.NoError(t, err)
	require.False(t, ok)

	require.True(t, pool.UnpinPage(1, 0, false))
	ok, err = pool.DeletePage(1, 0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDeletePageNotResidentIsNoop(t *testing.T) {
	pool := newTestPool(t, 2)
	ok, err := pool.DeletePage(9, 9)
	require.NoError(t, err)
	require.True(t, ok)
}
