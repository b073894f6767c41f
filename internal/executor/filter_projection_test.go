package executor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal/executor"
	"github.com/tuannm99/pagedb/internal/record"
)

func drain(t *testing.T, e executor.Executor) []record.Record {
	t.Helper()
	require.NoError(t, e.Init())
	var out []record.Record
	for !e.IsEnd() {
		out = append(out, e.GetRecord())
		require.NoError(t, e.Next())
	}
	return out
}

func TestFilterPassesOnlyMatching(t *testing.T) {
	h := newPeopleHandle(t, [][]any{
		{int64(1), "a"},
		{int64(2), "b"},
		{int64(3), "c"},
	})
	scan := executor.NewTableScan(h)
	f := executor.NewFilter(scan, func(r record.Record) (bool, error) {
		return r.Values[0].(int64) >= 2, nil
	})

	rows := drain(t, f)
	require.Len(t, rows, 2)
	require.Equal(t, int64(2), rows[0].Values[0])
	require.Equal(t, int64(3), rows[1].Values[0])
}

func TestFilterAllRejectedIsEmpty(t *testing.T) {
	h := newPeopleHandle(t, [][]any{{int64(1), "a"}})
	scan := executor.NewTableScan(h)
	f := executor.NewFilter(scan, func(record.Record) (bool, error) { return false, nil })
	rows := drain(t, f)
	require.Empty(t, rows)
}

func TestProjectionNarrowsSchema(t *testing.T) {
	h := newPeopleHandle(t, [][]any{{int64(1), "alice"}})
	scan := executor.NewTableScan(h)
	out := record.Schema{Cols: []record.Column{{Name: "name", Type: record.ColText, MaxLen: 16}}}
	p := executor.NewProjection(scan, out)

	rows := drain(t, p)
	require.Len(t, rows, 1)
	require.Equal(t, []any{"alice"}, rows[0].Values)
	require.Equal(t, out, p.GetOutSchema())
}
