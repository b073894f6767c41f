package storage

import "encoding/binary"

// Page is a raw PAGE_SIZE-byte buffer shared by the table-header page and
// every data page of a table file. Generic header fields (file id, page id,
// next free page id) sit at a fixed offset on every page; the remaining
// bytes are interpreted by the file-header layout or by a page handle
// (N-ary or PAX), never by Page itself.
//
// Dirty is tracked by the buffer pool's Frame, not by Page: a page buffer
// on its own has no notion of "since when has this differed from disk".
type Page struct {
	Buf []byte
}

// NewPage wraps buf (which must be exactly PAGE_SIZE bytes) as a Page and
// stamps its file/page identity into the generic header. It does not
// touch next_free_page_id: buf may be freshly read from disk, and that
// field's value is the free-list link the caller needs to preserve. Use
// Reset to actually clear a page being repurposed for a different identity.
func NewPage(buf []byte, fileID, pageID uint32) *Page {
	p := &Page{Buf: buf}
	p.SetFileID(fileID)
	p.SetPageID(pageID)
	return p
}

func (p *Page) FileID() uint32 { return binary.LittleEndian.Uint32(p.Buf[0:4]) }

func (p *Page) SetFileID(v uint32) { binary.LittleEndian.PutUint32(p.Buf[0:4], v) }

func (p *Page) PageID() uint32 { return binary.LittleEndian.Uint32(p.Buf[4:8]) }

func (p *Page) SetPageID(v uint32) { binary.LittleEndian.PutUint32(p.Buf[4:8], v) }

func (p *Page) NextFreePageID() uint32 { return binary.LittleEndian.Uint32(p.Buf[8:12]) }

func (p *Page) SetNextFreePageID(v uint32) { binary.LittleEndian.PutUint32(p.Buf[8:12], v) }

// RecordNum returns the data-page-only record_num field. Callers must not
// call this on the file-header page.
func (p *Page) RecordNum() uint32 { return binary.LittleEndian.Uint32(p.Buf[12:16]) }

func (p *Page) SetRecordNum(v uint32) { binary.LittleEndian.PutUint32(p.Buf[12:16], v) }

// Bitmap returns the occupancy bitmap region of a data page: bitmapSize
// bytes starting right after the data page header.
func (p *Page) Bitmap(bitmapSize int) []byte {
	return p.Buf[DataPageHeaderSize : DataPageHeaderSize+bitmapSize]
}

// SlotRegion returns the slot/stripe region of a data page: everything
// after the header and the occupancy bitmap.
func (p *Page) SlotRegion(bitmapSize int) []byte {
	return p.Buf[DataPageHeaderSize+bitmapSize:]
}

// Reset zeroes the buffer and restamps a fresh identity, used by the
// table handle when it allocates a new data page.
func (p *Page) Reset(fileID, pageID uint32) {
	for i := range p.Buf {
		p.Buf[i] = 0
	}
	p.SetFileID(fileID)
	p.SetPageID(pageID)
	p.SetNextFreePageID(InvalidPageID)
}
