package executor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal/executor"
	"github.com/tuannm99/pagedb/internal/record"
)

func intSchema() record.Schema {
	return record.Schema{Cols: []record.Column{{Name: "n", Type: record.ColInt64}}}
}

func intRows(vals ...int64) [][]any {
	rows := make([][]any, len(vals))
	for i, v := range vals {
		rows[i] = []any{v}
	}
	return rows
}

func sortedValues(t *testing.T, e executor.Executor) []int64 {
	t.Helper()
	require.NoError(t, e.Init())
	var out []int64
	for !e.IsEnd() {
		out = append(out, e.GetRecord().Values[0].(int64))
		require.NoError(t, e.Next())
	}
	return out
}

func TestSortInMemoryAscending(t *testing.T) {
	s := intSchema()
	h := newGenericHandle(t, s, intRows(3, 1, 4, 1, 5))
	scan := executor.NewTableScan(h)

	// Large buffer: everything fits in one chunk, no spill.
	sortOp := executor.NewSort(scan, s, true, 1<<20, t.TempDir())
	got := sortedValues(t, sortOp)
	require.Equal(t, []int64{1, 1, 3, 4, 5}, got)
	require.NoError(t, sortOp.Close())
}

func TestSortExternalMergeMatchesInMemoryOrder(t *testing.T) {
	s := intSchema()
	input := []int64{3, 1, 4, 1, 5, 9, 2, 6}
	h := newGenericHandle(t, s, intRows(input...))
	scan := executor.NewTableScan(h)

	unitSize := s.NullmapSize() + s.RecordLength()
	// max_rec_num = 2 forces 4 runs in group 0, per the external-sort
	// scenario.
	sortOp := executor.NewSort(scan, s, true, unitSize*2, t.TempDir())
	got := sortedValues(t, sortOp)
	require.Equal(t, []int64{1, 1, 2, 3, 4, 5, 6, 9}, got)
	require.NoError(t, sortOp.Close())
}

func TestSortDescending(t *testing.T) {
	s := intSchema()
	h := newGenericHandle(t, s, intRows(1, 2, 3))
	scan := executor.NewTableScan(h)

	sortOp := executor.NewSort(scan, s, false, 1<<20, t.TempDir())
	got := sortedValues(t, sortOp)
	require.Equal(t, []int64{3, 2, 1}, got)
	require.NoError(t, sortOp.Close())
}
