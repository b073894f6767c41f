package storage

import "encoding/binary"

// TableHeader is the logical view of the file-header page (page id
// FileHeaderPageID) of a table file: record geometry plus the head of the
// free-page list.
type TableHeader struct {
	PageNum       uint32 // pages in the file, header page included (data pages + 1); also the id the next new data page gets
	RecSize       uint32
	NullmapSize   uint32
	RecPerPage    uint32
	FirstFreePage uint32 // InvalidPageID when no page has free slots
}

// Encode writes h into the file-header page's extra fields, right after the
// generic header.
func (h TableHeader) Encode(p *Page) {
	b := p.Buf[GenericHeaderSize : GenericHeaderSize+FileHeaderExtraSize]
	binary.LittleEndian.PutUint32(b[0:4], h.PageNum)
	binary.LittleEndian.PutUint32(b[4:8], h.RecSize)
	binary.LittleEndian.PutUint32(b[8:12], h.NullmapSize)
	binary.LittleEndian.PutUint32(b[12:16], h.RecPerPage)
	binary.LittleEndian.PutUint32(b[16:20], h.FirstFreePage)
}

// DecodeTableHeader reads a TableHeader back out of the file-header page.
func DecodeTableHeader(p *Page) TableHeader {
	b := p.Buf[GenericHeaderSize : GenericHeaderSize+FileHeaderExtraSize]
	return TableHeader{
		PageNum:       binary.LittleEndian.Uint32(b[0:4]),
		RecSize:       binary.LittleEndian.Uint32(b[4:8]),
		NullmapSize:   binary.LittleEndian.Uint32(b[8:12]),
		RecPerPage:    binary.LittleEndian.Uint32(b[12:16]),
		FirstFreePage: binary.LittleEndian.Uint32(b[16:20]),
	}
}
