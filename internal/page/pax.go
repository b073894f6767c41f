package page

import "github.com/tuannm99/pagedb/internal/storage"

// PAX is a column-partitioned page handle: after the occupancy bitmap
// comes a per-slot null-bitmap stripe, then one stripe per field, each
// holding RecPerPage fixed-width cells. Reading a slot gathers one cell
// from each stripe and concatenates them into the same nullmap+body byte
// layout N-ary produces, so record.DecodeBody works unchanged against
// either handle. novasql has no columnar page; field offsets are
// precomputed once per handle, mirroring how the original C++ table
// handle precomputes field_offset_ for PAX_MODEL.
type PAX struct {
	pg          *storage.Page
	geo         Geometry
	fieldOffset []int // byte offset of stripe i within the stripe region
}

var _ Handle = (*PAX)(nil)

func NewPAX(pg *storage.Page, geo Geometry) *PAX {
	offsets := make([]int, len(geo.FieldWidths))
	off := 0
	for i, w := range geo.FieldWidths {
		offsets[i] = off
		off += w * geo.RecPerPage
	}
	return &PAX{pg: pg, geo: geo, fieldOffset: offsets}
}

func (h *PAX) bitmapSize() int { return storage.BitmapSize(h.geo.RecPerPage) }

func (h *PAX) Bitmap() []byte {
	return h.pg.Bitmap(h.bitmapSize())
}

func (h *PAX) RecPerPage() int { return h.geo.RecPerPage }

// stripeRegion is everything after the occupancy bitmap: the per-slot
// nullmap stripe followed by one stripe per field.
func (h *PAX) stripeRegion() []byte {
	return h.pg.SlotRegion(h.bitmapSize())
}

func (h *PAX) nullmapStripe() []byte {
	n := h.geo.NullmapSize * h.geo.RecPerPage
	return h.stripeRegion()[:n]
}

func (h *PAX) fieldStripe(field int) []byte {
	base := h.geo.NullmapSize * h.geo.RecPerPage
	region := h.stripeRegion()[base:]
	w := h.geo.FieldWidths[field]
	start := h.fieldOffset[field]
	return region[start : start+w*h.geo.RecPerPage]
}

func (h *PAX) ReadSlot(slotID uint32) ([]byte, []byte, error) {
	if int(slotID) >= h.geo.RecPerPage {
		return nil, nil, storage.ErrPageMiss
	}
	ns := h.geo.NullmapSize
	nm := h.nullmapStripe()
	nullmap := append([]byte(nil), nm[int(slotID)*ns:(int(slotID)+1)*ns]...)

	body := make([]byte, 0, h.geo.RecSize)
	for i, w := range h.geo.FieldWidths {
		stripe := h.fieldStripe(i)
		body = append(body, stripe[int(slotID)*w:(int(slotID)+1)*w]...)
	}
	return nullmap, body, nil
}

func (h *PAX) WriteSlot(slotID uint32, nullmap, body []byte, markUsed bool) error {
	if int(slotID) >= h.geo.RecPerPage {
		return storage.ErrPageMiss
	}
	ns := h.geo.NullmapSize
	nm := h.nullmapStripe()
	copy(nm[int(slotID)*ns:(int(slotID)+1)*ns], nullmap)

	off := 0
	for i, w := range h.geo.FieldWidths {
		stripe := h.fieldStripe(i)
		copy(stripe[int(slotID)*w:(int(slotID)+1)*w], body[off:off+w])
		off += w
	}

	if markUsed {
		bm := h.Bitmap()
		if !IsOccupied(bm, slotID) {
			setBit(bm, slotID)
			h.pg.SetRecordNum(h.pg.RecordNum() + 1)
		}
	}
	return nil
}

// ClearSlot unsets the occupancy bit for slotID and decrements
// record_num. It does not zero the stripe cells.
func (h *PAX) ClearSlot(slotID uint32) {
	bm := h.Bitmap()
	if IsOccupied(bm, slotID) {
		clearBit(bm, slotID)
		h.pg.SetRecordNum(h.pg.RecordNum() - 1)
	}
}
