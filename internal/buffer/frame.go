package buffer

import "github.com/tuannm99/pagedb/internal/storage"

// PageKey identifies a resident page by the file it belongs to and its
// page id within that file.
type PageKey struct {
	FileID uint32
	PageID uint32
}

// Frame holds one resident page plus the metadata the buffer pool manager
// needs to decide whether it can be reused.
type Frame struct {
	Key      PageKey
	Page     *storage.Page
	PinCount uint32
	Dirty    bool
	InUse    bool
}
