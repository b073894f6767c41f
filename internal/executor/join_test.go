package executor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal/executor"
	"github.com/tuannm99/pagedb/internal/record"
)

func kvSchema() record.Schema {
	return record.Schema{Cols: []record.Column{
		{Name: "k", Type: record.ColInt64},
		{Name: "v", Type: record.ColText, MaxLen: 16},
	}}
}

func buildKVScan(t *testing.T, rows [][]any) executor.Executor {
	t.Helper()
	h := newGenericHandle(t, kvSchema(), rows)
	return executor.NewTableScan(h)
}

func kEquals(l, r record.Record) (bool, error) {
	return record.EqualValues(record.ColInt64, l.Values[0], r.Values[0])
}

func TestNestedLoopInnerJoin(t *testing.T) {
	outer := buildKVScan(t, [][]any{{int64(1), "a"}, {int64(2), "b"}})
	inner := buildKVScan(t, [][]any{{int64(1), "x"}, {int64(1), "y"}, {int64(2), "z"}})

	j := executor.NewNestedLoopJoin(outer, inner, executor.InnerJoin, []executor.JoinCondition{kEquals})
	rows := drain(t, j)

	require.Len(t, rows, 3)
	require.Equal(t, []any{int64(1), "a", int64(1), "x"}, rows[0].Values)
	require.Equal(t, []any{int64(1), "a", int64(1), "y"}, rows[1].Values)
	require.Equal(t, []any{int64(2), "b", int64(2), "z"}, rows[2].Values)
}

func TestNestedLoopLeftOuterJoinEmitsUnmatchedWithNulls(t *testing.T) {
	outer := buildKVScan(t, [][]any{{int64(1), "a"}, {int64(9), "nomatch"}})
	inner := buildKVScan(t, [][]any{{int64(1), "x"}})

	j := executor.NewNestedLoopJoin(outer, inner, executor.LeftOuterJoin, []executor.JoinCondition{kEquals})
	rows := drain(t, j)

	require.Len(t, rows, 2)
	require.Equal(t, []any{int64(1), "a", int64(1), "x"}, rows[0].Values)
	require.Equal(t, int64(9), rows[1].Values[0])
	require.Nil(t, rows[1].Values[2])
	require.Nil(t, rows[1].Values[3])
}

func TestNestedLoopFullOuterJoinEmitsBothUnmatchedSides(t *testing.T) {
	outer := buildKVScan(t, [][]any{{int64(1), "a"}, {int64(9), "nomatch-left"}})
	inner := buildKVScan(t, [][]any{{int64(1), "x"}, {int64(8), "nomatch-right"}})

	j := executor.NewNestedLoopJoin(outer, inner, executor.FullOuterJoin, []executor.JoinCondition{kEquals})
	rows := drain(t, j)

	require.Len(t, rows, 3)
	require.Equal(t, []any{int64(1), "a", int64(1), "x"}, rows[0].Values)
	require.Equal(t, int64(9), rows[1].Values[0])
	require.Nil(t, rows[1].Values[2])
	require.Nil(t, rows[2].Values[0])
	require.Equal(t, "nomatch-right", rows[2].Values[3])
}
