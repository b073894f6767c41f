package page

import "github.com/tuannm99/pagedb/internal/record"

// Chunk is a batch of rows read off one page, already decoded and
// projected to a schema. It is stored row by row (Rows[i] holds one row's
// values); it keeps no per-column arrays.
type Chunk struct {
	Schema record.Schema
	Rows   [][]any
}

// ReadChunk decodes every live slot on h into values conforming to
// schema, in slot order.
func ReadChunk(h Handle, full record.Schema, out record.Schema) (*Chunk, error) {
	c := &Chunk{Schema: out}
	bitmap := h.Bitmap()
	for slotID := uint32(0); int(slotID) < h.RecPerPage(); slotID++ {
		if !IsOccupied(bitmap, slotID) {
			continue
		}
		nullmap, body, err := h.ReadSlot(slotID)
		if err != nil {
			return nil, err
		}
		values, err := record.DecodeBody(full, body, nullmap)
		if err != nil {
			return nil, err
		}
		rec, err := record.Record{Schema: full, Values: values}.Project(out)
		if err != nil {
			return nil, err
		}
		c.Rows = append(c.Rows, rec.Values)
	}
	return c, nil
}
