package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalDiskManagerReadUnwrittenPageIsZero(t *testing.T) {
	dm, err := NewLocalDiskManager(t.TempDir(), DefaultPageSize)
	require.NoError(t, err)

	buf := make([]byte, DefaultPageSize)
	for i := range buf {
		buf[i] = 0xAA
	}
	require.NoError(t, dm.ReadPage(1, 5, buf))
	for _, b := range buf {
		require.Equal(t, byte(0), b)
	}
}

func TestLocalDiskManagerWriteReadRoundTrip(t *testing.T) {
	dm, err := NewLocalDiskManager(t.TempDir(), DefaultPageSize)
	require.NoError(t, err)

	want := make([]byte, DefaultPageSize)
	for i := range want {
		want[i] = byte(i % 251)
	}
	require.NoError(t, dm.WritePage(7, 2, want))

	got := make([]byte, DefaultPageSize)
	require.NoError(t, dm.ReadPage(7, 2, got))
	require.Equal(t, want, got)
}

func TestLocalDiskManagerSeparatesFiles(t *testing.T) {
	dm, err := NewLocalDiskManager(t.TempDir(), DefaultPageSize)
	require.NoError(t, err)

	a := make([]byte, DefaultPageSize)
	a[0] = 1
	b := make([]byte, DefaultPageSize)
	b[0] = 2

	require.NoError(t, dm.WritePage(1, 0, a))
	require.NoError(t, dm.WritePage(2, 0, b))

	gotA := make([]byte, DefaultPageSize)
	gotB := make([]byte, DefaultPageSize)
	require.NoError(t, dm.ReadPage(1, 0, gotA))
	require.NoError(t, dm.ReadPage(2, 0, gotB))
	require.Equal(t, byte(1), gotA[0])
	require.Equal(t, byte(2), gotB[0])
}

func TestComputeRecPerPageFitsHeaderAndBitmap(t *testing.T) {
	n := ComputeRecPerPage(DefaultPageSize, 1, 16)
	require.Greater(t, n, 0)
	bitmapSize := BitmapSize(n)
	require.LessOrEqual(t, DataPageHeaderSize+bitmapSize+n*(1+16), DefaultPageSize)

	n2 := ComputeRecPerPage(DefaultPageSize, 1, 16)
	bitmapSize2 := BitmapSize(n2 + 1)
	require.Greater(t, DataPageHeaderSize+bitmapSize2+(n2+1)*(1+16), DefaultPageSize)
}
