// Package table implements the per-table record layer: it translates
// record identifiers into page slots, maintains the free-page list and
// per-page occupancy bitmap, and supports both physical page layouts.
// Adapted from novasql's internal/heap.Table (CRUD over a pinned page,
// always unpinning before returning or raising) and the original C++
// TableHandle's free-list threading through next_free_page_id.
package table

import (
	"github.com/tuannm99/pagedb/internal/buffer"
	"github.com/tuannm99/pagedb/internal/page"
	"github.com/tuannm99/pagedb/internal/record"
	"github.com/tuannm99/pagedb/internal/storage"
)

// Model selects the physical page layout a Handle reads and writes.
type Model int

const (
	NAryModel Model = iota
	PAXModel
)

// Handle is the record-level CRUD surface for one table file.
type Handle struct {
	fileID uint32
	schema record.Schema
	pool   *buffer.Pool
	model  Model
	geo    page.Geometry
}

// Schema returns the table's row schema.
func (h *Handle) Schema() record.Schema { return h.schema }

// NewHandle opens a handle onto an already-initialized table file (its
// header page must have been written by InitHeader).
func NewHandle(fileID uint32, schema record.Schema, pool *buffer.Pool, model Model) *Handle {
	fieldWidths := make([]int, len(schema.Cols))
	for i, c := range schema.Cols {
		fieldWidths[i] = c.Width()
	}
	recPerPage := storage.ComputeRecPerPage(pool.PageSize(), schema.NullmapSize(), schema.RecordLength())
	return &Handle{
		fileID: fileID,
		schema: schema,
		pool:   pool,
		model:  model,
		geo: page.Geometry{
			NullmapSize: schema.NullmapSize(),
			RecSize:     schema.RecordLength(),
			RecPerPage:  recPerPage,
			FieldWidths: fieldWidths,
		},
	}
}

// InitHeader writes a fresh table header (page_num=1, which counts the
// header page itself rather than data pages alone; first_free_page
// invalid) for a newly created table file. Callers must invoke this
// exactly once, before constructing a Handle for the same fileID.
func InitHeader(pool *buffer.Pool, fileID uint32, schema record.Schema) error {
	recPerPage := storage.ComputeRecPerPage(pool.PageSize(), schema.NullmapSize(), schema.RecordLength())
	p, err := pool.FetchPage(fileID, storage.FileHeaderPageID)
	if err != nil {
		return err
	}
	hdr := storage.TableHeader{
		PageNum:       1, // header page counts as page 0
		RecSize:       uint32(schema.RecordLength()),
		NullmapSize:   uint32(schema.NullmapSize()),
		RecPerPage:    uint32(recPerPage),
		FirstFreePage: storage.InvalidPageID,
	}
	hdr.Encode(p)
	pool.UnpinPage(fileID, storage.FileHeaderPageID, true)
	return nil
}

func (h *Handle) newPageHandle(p *storage.Page) page.Handle {
	if h.model == PAXModel {
		return page.NewPAX(p, h.geo)
	}
	return page.NewNAry(p, h.geo)
}

func (h *Handle) fetchHeader() (storage.TableHeader, *storage.Page, error) {
	p, err := h.pool.FetchPage(h.fileID, storage.FileHeaderPageID)
	if err != nil {
		return storage.TableHeader{}, nil, err
	}
	return storage.DecodeTableHeader(p), p, nil
}

// GetRecord fetches the page, reads the slot, and raises ErrRecordMiss if
// the bitmap bit is 0. The page is always unpinned before returning.
func (h *Handle) GetRecord(rid storage.RID) (record.Record, error) {
	if !rid.IsValid() {
		return record.Record{}, storage.ErrPageMiss
	}

	p, err := h.pool.FetchPage(h.fileID, rid.PageID)
	if err != nil {
		return record.Record{}, err
	}
	ph := h.newPageHandle(p)

	if !page.IsOccupied(ph.Bitmap(), rid.SlotID) {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		return record.Record{}, storage.ErrRecordMiss
	}

	nullmap, body, err := ph.ReadSlot(rid.SlotID)
	if err != nil {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		return record.Record{}, err
	}
	values, err := record.DecodeBody(h.schema, body, nullmap)
	h.pool.UnpinPage(h.fileID, rid.PageID, false)
	if err != nil {
		return record.Record{}, err
	}
	return record.Record{Schema: h.schema, Values: values, RID: rid}, nil
}

// InsertRecord allocates space for values and returns the rid it was
// placed at: the head of the free-page list if one exists, else a newly
// allocated page.
func (h *Handle) InsertRecord(values []any) (storage.RID, error) {
	hdr, hp, err := h.fetchHeader()
	if err != nil {
		return storage.RID{}, err
	}
	headerDirty := false

	var pageID uint32
	var dp *storage.Page
	if hdr.FirstFreePage == storage.InvalidPageID {
		pageID = hdr.PageNum
		hdr.PageNum++
		dp, err = h.pool.FetchPage(h.fileID, pageID)
		if err != nil {
			h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
			return storage.RID{}, err
		}
		dp.Reset(h.fileID, pageID)
		dp.SetNextFreePageID(hdr.FirstFreePage)
		hdr.FirstFreePage = pageID
		headerDirty = true
	} else {
		pageID = hdr.FirstFreePage
		dp, err = h.pool.FetchPage(h.fileID, pageID)
		if err != nil {
			h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
			return storage.RID{}, err
		}
	}

	ph := h.newPageHandle(dp)
	slotID, ok := page.FindFirstFree(ph.Bitmap(), h.geo.RecPerPage)
	if !ok {
		h.pool.UnpinPage(h.fileID, pageID, false)
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, headerDirty)
		return storage.RID{}, storage.ErrPageMiss
	}

	body, nullmap, err := record.EncodeBody(h.schema, values)
	if err != nil {
		h.pool.UnpinPage(h.fileID, pageID, false)
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, headerDirty)
		return storage.RID{}, err
	}
	if err := ph.WriteSlot(slotID, nullmap, body, true); err != nil {
		h.pool.UnpinPage(h.fileID, pageID, false)
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, headerDirty)
		return storage.RID{}, err
	}

	if int(dp.RecordNum()) == h.geo.RecPerPage {
		hdr.FirstFreePage = dp.NextFreePageID()
		headerDirty = true
	}

	h.pool.UnpinPage(h.fileID, pageID, true)
	if headerDirty {
		hdr.Encode(hp)
	}
	h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, headerDirty)

	return storage.RID{PageID: pageID, SlotID: slotID}, nil
}

// InsertRecordAt places values at a specific rid, raising ErrRecordExists
// if the slot is already occupied and ErrPageMiss if rid names
// InvalidPageID.
func (h *Handle) InsertRecordAt(rid storage.RID, values []any) error {
	if rid.PageID == storage.InvalidPageID {
		return storage.ErrPageMiss
	}

	hdr, hp, err := h.fetchHeader()
	if err != nil {
		return err
	}
	headerDirty := false

	dp, err := h.pool.FetchPage(h.fileID, rid.PageID)
	if err != nil {
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
		return err
	}
	ph := h.newPageHandle(dp)

	if page.IsOccupied(ph.Bitmap(), rid.SlotID) {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
		return storage.ErrRecordExists
	}

	body, nullmap, err := record.EncodeBody(h.schema, values)
	if err != nil {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
		return err
	}
	if err := ph.WriteSlot(rid.SlotID, nullmap, body, true); err != nil {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
		return err
	}

	if int(dp.RecordNum()) == h.geo.RecPerPage {
		hdr.FirstFreePage = dp.NextFreePageID()
		headerDirty = true
	}

	h.pool.UnpinPage(h.fileID, rid.PageID, true)
	if headerDirty {
		hdr.Encode(hp)
	}
	h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, headerDirty)
	return nil
}

// DeleteRecord clears the slot's occupancy bit, raising ErrRecordMiss if
// it was already clear. If the page transitions from full to non-full it
// is pushed onto the free-list head.
func (h *Handle) DeleteRecord(rid storage.RID) error {
	hdr, hp, err := h.fetchHeader()
	if err != nil {
		return err
	}
	headerDirty := false

	dp, err := h.pool.FetchPage(h.fileID, rid.PageID)
	if err != nil {
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
		return err
	}
	ph := h.newPageHandle(dp)

	if !page.IsOccupied(ph.Bitmap(), rid.SlotID) {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
		return storage.ErrRecordMiss
	}

	wasFull := int(dp.RecordNum()) == h.geo.RecPerPage
	ph.ClearSlot(rid.SlotID)

	if wasFull {
		dp.SetNextFreePageID(hdr.FirstFreePage)
		hdr.FirstFreePage = rid.PageID
		headerDirty = true
	}

	h.pool.UnpinPage(h.fileID, rid.PageID, true)
	if headerDirty {
		hdr.Encode(hp)
	}
	h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, headerDirty)
	return nil
}

// UpdateRecord overwrites a slot's bytes in place, raising ErrRecordMiss
// if it is unoccupied. Record length is constant by schema, so this never
// needs to move a record.
func (h *Handle) UpdateRecord(rid storage.RID, values []any) error {
	p, err := h.pool.FetchPage(h.fileID, rid.PageID)
	if err != nil {
		return err
	}
	ph := h.newPageHandle(p)

	if !page.IsOccupied(ph.Bitmap(), rid.SlotID) {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		return storage.ErrRecordMiss
	}

	body, nullmap, err := record.EncodeBody(h.schema, values)
	if err != nil {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		return err
	}
	if err := ph.WriteSlot(rid.SlotID, nullmap, body, false); err != nil {
		h.pool.UnpinPage(h.fileID, rid.PageID, false)
		return err
	}
	h.pool.UnpinPage(h.fileID, rid.PageID, true)
	return nil
}

// GetFirstRID returns the first live rid in (page_id, slot_id) order, or
// storage.InvalidRID if the table is empty.
func (h *Handle) GetFirstRID() (storage.RID, error) {
	hdr, _, err := h.fetchHeader()
	h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
	if err != nil {
		return storage.InvalidRID, err
	}

	for pageID := storage.FileHeaderPageID + 1; pageID < hdr.PageNum; pageID++ {
		p, err := h.pool.FetchPage(h.fileID, pageID)
		if err != nil {
			return storage.InvalidRID, err
		}
		ph := h.newPageHandle(p)
		slotID, ok := firstOccupied(ph.Bitmap(), h.geo.RecPerPage, 0)
		h.pool.UnpinPage(h.fileID, pageID, false)
		if ok {
			return storage.RID{PageID: pageID, SlotID: slotID}, nil
		}
	}
	return storage.InvalidRID, nil
}

// GetNextRID returns the next live rid after rid in (page_id, slot_id)
// order, or storage.InvalidRID on exhaustion.
func (h *Handle) GetNextRID(rid storage.RID) (storage.RID, error) {
	hdr, _, err := h.fetchHeader()
	h.pool.UnpinPage(h.fileID, storage.FileHeaderPageID, false)
	if err != nil {
		return storage.InvalidRID, err
	}

	pageID := rid.PageID
	from := rid.SlotID + 1

	for pageID < hdr.PageNum {
		p, err := h.pool.FetchPage(h.fileID, pageID)
		if err != nil {
			return storage.InvalidRID, err
		}
		ph := h.newPageHandle(p)
		slotID, ok := firstOccupied(ph.Bitmap(), h.geo.RecPerPage, from)
		h.pool.UnpinPage(h.fileID, pageID, false)
		if ok {
			return storage.RID{PageID: pageID, SlotID: slotID}, nil
		}
		pageID++
		from = 0
	}
	return storage.InvalidRID, nil
}

func firstOccupied(bitmap []byte, recPerPage int, from uint32) (uint32, bool) {
	for slotID := from; int(slotID) < recPerPage; slotID++ {
		if page.IsOccupied(bitmap, slotID) {
			return slotID, true
		}
	}
	return 0, false
}
