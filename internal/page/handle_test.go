package page_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal/page"
	"github.com/tuannm99/pagedb/internal/record"
	"github.com/tuannm99/pagedb/internal/storage"
)

func schemaAndGeometry() (record.Schema, page.Geometry) {
	s := record.Schema{Cols: []record.Column{
		{Name: "id", Type: record.ColInt64},
		{Name: "name", Type: record.ColText, MaxLen: 8},
	}}
	recPerPage := storage.ComputeRecPerPage(storage.DefaultPageSize, s.NullmapSize(), s.RecordLength())
	geo := page.Geometry{
		NullmapSize: s.NullmapSize(),
		RecSize:     s.RecordLength(),
		RecPerPage:  recPerPage,
		FieldWidths: []int{s.Cols[0].Width(), s.Cols[1].Width()},
	}
	return s, geo
}

func newBlankPage() *storage.Page {
	buf := make([]byte, storage.DefaultPageSize)
	return storage.NewPage(buf, 1, 1)
}

func TestNAryWriteReadSlot(t *testing.T) {
	s, geo := schemaAndGeometry()
	h := page.NewNAry(newBlankPage(), geo)

	body, nullmap, err := record.EncodeBody(s, []any{int64(5), "abc"})
	require.NoError(t, err)

	require.NoError(t, h.WriteSlot(0, nullmap, body, true))
	require.True(t, page.IsOccupied(h.Bitmap(), 0))

	gotNullmap, gotBody, err := h.ReadSlot(0)
	require.NoError(t, err)
	values, err := record.DecodeBody(s, gotBody, gotNullmap)
	require.NoError(t, err)
	require.Equal(t, []any{int64(5), "abc"}, values)
}

func TestNAryClearSlot(t *testing.T) {
	s, geo := schemaAndGeometry()
	h := page.NewNAry(newBlankPage(), geo)
	body, nullmap, err := record.EncodeBody(s, []any{int64(1), "x"})
	require.NoError(t, err)
	require.NoError(t, h.WriteSlot(0, nullmap, body, true))

	h.ClearSlot(0)
	require.False(t, page.IsOccupied(h.Bitmap(), 0))
}

func TestPAXWriteReadSlot(t *testing.T) {
	s, geo := schemaAndGeometry()
	h := page.NewPAX(newBlankPage(), geo)

	body, nullmap, err := record.EncodeBody(s, []any{int64(9), "zzz"})
	require.NoError(t, err)
	require.NoError(t, h.WriteSlot(3, nullmap, body, true))

	gotNullmap, gotBody, err := h.ReadSlot(3)
	require.NoError(t, err)
	values, err := record.DecodeBody(s, gotBody, gotNullmap)
	require.NoError(t, err)
	require.Equal(t, []any{int64(9), "zzz"}, values)
}

func TestFindFirstFree(t *testing.T) {
	_, geo := schemaAndGeometry()
	bitmap := make([]byte, storage.BitmapSize(geo.RecPerPage))
	page.IsOccupied(bitmap, 0) // sanity: no panic on empty bitmap

	id, ok := page.FindFirstFree(bitmap, geo.RecPerPage)
	require.True(t, ok)
	require.Equal(t, uint32(0), id)
}
