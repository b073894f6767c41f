package page

import "github.com/tuannm99/pagedb/internal/storage"

// NAry is a row-wise page handle: each slot is one contiguous
// nullmap+body run. Adapted from novasql's slotted-page layout
// (storage.Page's Lower/Upper/slot array), generalized from a
// variable-length heap page into the fixed-slot, explicit-bitmap layout.
type NAry struct {
	pg  *storage.Page
	geo Geometry
}

var _ Handle = (*NAry)(nil)

func NewNAry(pg *storage.Page, geo Geometry) *NAry {
	return &NAry{pg: pg, geo: geo}
}

func (h *NAry) bitmapSize() int { return storage.BitmapSize(h.geo.RecPerPage) }

func (h *NAry) Bitmap() []byte {
	return h.pg.Bitmap(h.bitmapSize())
}

func (h *NAry) slots() []byte {
	return h.pg.SlotRegion(h.bitmapSize())
}

func (h *NAry) RecPerPage() int { return h.geo.RecPerPage }

func (h *NAry) ReadSlot(slotID uint32) ([]byte, []byte, error) {
	if int(slotID) >= h.geo.RecPerPage {
		return nil, nil, storage.ErrPageMiss
	}
	off := int(slotID) * h.geo.slotSize()
	slot := h.slots()[off : off+h.geo.slotSize()]
	nullmap := slot[:h.geo.NullmapSize]
	body := slot[h.geo.NullmapSize:]
	return nullmap, body, nil
}

func (h *NAry) WriteSlot(slotID uint32, nullmap, body []byte, markUsed bool) error {
	if int(slotID) >= h.geo.RecPerPage {
		return storage.ErrPageMiss
	}
	off := int(slotID) * h.geo.slotSize()
	slot := h.slots()[off : off+h.geo.slotSize()]
	copy(slot[:h.geo.NullmapSize], nullmap)
	copy(slot[h.geo.NullmapSize:], body)

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
// record_num. It does not zero the slot bytes.
func (h *NAry) ClearSlot(slotID uint32) {
	bm := h.Bitmap()
	if IsOccupied(bm, slotID) {
		clearBit(bm, slotID)
		h.pg.SetRecordNum(h.pg.RecordNum() - 1)
	}
}
