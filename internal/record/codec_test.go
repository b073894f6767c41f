package record_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal/record"
)

func testSchema() record.Schema {
	return record.Schema{Cols: []record.Column{
		{Name: "id", Type: record.ColInt64},
		{Name: "name", Type: record.ColText, MaxLen: 16, Nullable: true},
		{Name: "active", Type: record.ColBool},
		{Name: "score", Type: record.ColFloat64},
	}}
}

func TestRecordLengthIsConstant(t *testing.T) {
	s := testSchema()
	want := 8 + (2 + 16) + 1 + 8
	require.Equal(t, want, s.RecordLength())

	b1, _, err := record.EncodeBody(s, []any{int64(1), "a", true, 1.5})
	require.NoError(t, err)

	_, _, err = record.EncodeBody(s, []any{int64(2), "a much longer name", false, -2.5})
	require.ErrorIs(t, err, record.ErrValueTooLong)

	b3, _, err := record.EncodeBody(s, []any{int64(3), nil, false, 0.0})
	require.NoError(t, err)
	require.Len(t, b1, s.RecordLength())
	require.Len(t, b3, s.RecordLength())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := testSchema()
	values := []any{int64(42), "hello", true, 3.25}

	body, nullmap, err := record.EncodeBody(s, values)
	require.NoError(t, err)

	got, err := record.DecodeBody(s, body, nullmap)
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestEncodeDecodeNullRoundTrip(t *testing.T) {
	s := testSchema()
	values := []any{int64(7), nil, false, 0.0}

	body, nullmap, err := record.EncodeBody(s, values)
	require.NoError(t, err)

	got, err := record.DecodeBody(s, body, nullmap)
	require.NoError(t, err)
	require.Nil(t, got[1])
}

func TestEncodeRejectsNullOnNotNullable(t *testing.T) {
	s := record.Schema{Cols: []record.Column{{Name: "id", Type: record.ColInt64}}}
	_, _, err := record.EncodeBody(s, []any{nil})
	require.ErrorIs(t, err, record.ErrSchemaMismatch)
}

func TestCompareValuesOrdering(t *testing.T) {
	c, err := record.CompareValues(record.ColInt64, int64(1), int64(2))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = record.CompareValues(record.ColText, "b", "a")
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = record.CompareValues(record.ColInt64, nil, int64(1))
	require.NoError(t, err)
	require.Equal(t, -1, c)
}
