package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal/buffer"
	"github.com/tuannm99/pagedb/internal/storage"
)

func TestLRUReplacerVictimIsOldestUnpinned(t *testing.T) {
	r := buffer.NewLRUReplacer()
	r.Unpin(1)
	r.Unpin(2)
	r.Unpin(3)
	require.Equal(t, 3, r.Size())

	id, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, 1, id)
	require.Equal(t, 2, r.Size())
}

func TestLRUReplacerPinRemovesCandidacy(t *testing.T) {
	r := buffer.NewLRUReplacer()
	r.Unpin(1)
	r.Unpin(2)
	r.Pin(1)
	require.Equal(t, 1, r.Size())

	id, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, 2, id)
}

func TestLRUReplacerVictimEmpty(t *testing.T) {
	r := buffer.NewLRUReplacer()
	_, ok := r.Victim()
	require.False(t, ok)
}

func TestNewReplacerUnknownKind(t *testing.T) {
	_, err := buffer.NewReplacer("BogusReplacer", 2)
	require.ErrorIs(t, err, storage.ErrUnknownReplacer)
}

func TestLRUKReplacerPrefersFewerThanKAccesses(t *testing.T) {
	r := buffer.NewLRUKReplacer(2)

	r.RecordAccess(1)
	r.RecordAccess(1)
	r.Unpin(1)

	r.RecordAccess(2)
	r.Unpin(2)

	// frame 2 has <k accesses: infinite backward distance, evicted first.
	id, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, 2, id)
}

func TestLRUKReplacerEvictsLargestBackwardDistance(t *testing.T) {
	r := buffer.NewLRUKReplacer(2)

	r.RecordAccess(1)
	r.RecordAccess(1) // frame 1's two most recent accesses: clock 1, 2
	r.Unpin(1)

	r.RecordAccess(2)
	r.RecordAccess(2) // frame 2's two most recent accesses: clock 3, 4
	r.Unpin(2)

	// backward k-distance is measured from "now" (clock 4): frame 1 is
	// 4-1=3 away, frame 2 is 4-3=1 away. Frame 1 has the larger distance.
	id, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, 1, id)
}

func TestLRUKReplacerInfiniteDistanceOldestEarliestAccessFirst(t *testing.T) {
	r := buffer.NewLRUKReplacer(2)
	// both frames have <k accesses (infinite distance); the one with the
	// older earliest access goes first.
	r.RecordAccess(9)
	r.Unpin(9)
	r.RecordAccess(4)
	r.Unpin(4)

	id, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, 9, id)
}
