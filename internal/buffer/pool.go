package buffer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tuannm99/pagedb/internal/storage"
)

var logPrefix = "buffer: "

// Pool is the buffer pool manager: a bounded frame cache mapping
// (file_id, page_id) to a resident frame, pinning/unpinning, and flushing
// or evicting with write-back semantics. Adapted from novasql's
// bufferpool.Pool (frames slice, lookup map, single mutex) with the CLOCK
// victim search replaced by a pluggable Replacer, and the source's three
// known defects fixed: both the hit and miss paths read the frame pointer
// only after it has been fully updated, dirty write-back happens only at
// eviction/flush/delete (never inside Unpin), and a clean victim frame is
// still fully reset and reloaded, not silently skipped.
type Pool struct {
	disk     storage.DiskManager
	pageSize int
	replacer Replacer

	mu       sync.Mutex
	frames   []*Frame
	lookup   map[PageKey]int
	freeList []int
}

// NewPool creates a buffer pool of the given frame capacity over disk,
// using replacer for victim selection.
func NewPool(disk storage.DiskManager, pageSize, capacity int, replacer Replacer) *Pool {
	if capacity <= 0 {
		capacity = 16
	}
	if pageSize <= 0 {
		pageSize = storage.DefaultPageSize
	}
	p := &Pool{
		disk:     disk,
		pageSize: pageSize,
		replacer: replacer,
		frames:   make([]*Frame, capacity),
		lookup:   make(map[PageKey]int),
		freeList: make([]int, capacity),
	}
	for i := range p.frames {
		p.frames[i] = &Frame{}
		p.freeList[i] = i
	}
	return p
}

// PageSize returns the fixed page size this pool was constructed with.
func (p *Pool) PageSize() int { return p.pageSize }

func (p *Pool) recordAccess(frameID int) {
	if ar, ok := p.replacer.(AccessRecorder); ok {
		ar.RecordAccess(frameID)
	}
}

// FetchPage returns the page identified by (fileID, pageID), loading it
// from disk on a miss. The returned page is pinned; callers must call
// UnpinPage exactly once for every successful FetchPage.
func (p *Pool) FetchPage(fileID, pageID uint32) (*storage.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := PageKey{FileID: fileID, PageID: pageID}

	if frameID, ok := p.lookup[key]; ok {
		f := p.frames[frameID]
		f.PinCount++
		p.replacer.Pin(frameID)
		p.recordAccess(frameID)
		slog.Debug(logPrefix+"fetch hit", "fileID", fileID, "pageID", pageID, "frameID", frameID)
		return f.Page, nil
	}

	frameID, fromFreeList, err := p.obtainFrameLocked()
	if err != nil {
		return nil, err
	}

	f := p.frames[frameID]
	wasInUse := f.InUse
	oldKey := f.Key
	if wasInUse {
		delete(p.lookup, oldKey)
		if f.Dirty {
			if err := p.writeBackLocked(f); err != nil {
				p.restoreFrameLocked(frameID, fromFreeList, wasInUse, oldKey)
				return nil, err
			}
		}
	}

	buf := make([]byte, p.pageSize)
	if err := p.disk.ReadPage(fileID, pageID, buf); err != nil {
		p.restoreFrameLocked(frameID, fromFreeList, wasInUse, oldKey)
		return nil, err
	}

	f.Page = storage.NewPage(buf, fileID, pageID)
	f.Key = key
	f.PinCount = 1
	f.Dirty = false
	f.InUse = true

	p.lookup[key] = frameID
	p.replacer.Pin(frameID)
	p.recordAccess(frameID)

	slog.Debug(logPrefix+"fetch miss loaded", "fileID", fileID, "pageID", pageID, "frameID", frameID)
	return f.Page, nil
}

// obtainFrameLocked returns a frame id to reuse: from the free list if one
// exists, else from the replacer's victim candidates. fromFreeList tells
// the caller which pool the frame was taken from, so a failed reuse can be
// rolled back to the right place. Caller holds p.mu.
func (p *Pool) obtainFrameLocked() (frameID int, fromFreeList bool, err error) {
	if n := len(p.freeList); n > 0 {
		frameID := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return frameID, true, nil
	}
	frameID, ok := p.replacer.Victim()
	if !ok {
		return 0, false, storage.ErrNoFreeFrame
	}
	return frameID, false, nil
}

// restoreFrameLocked undoes obtainFrameLocked's claim on frameID after a
// failed reuse attempt (write-back or disk read error), putting the frame
// back exactly where it was: onto the free list, back as a replacer
// candidate, or re-registered under its prior key if it held a resident
// page. Caller holds p.mu.
func (p *Pool) restoreFrameLocked(frameID int, fromFreeList, wasInUse bool, oldKey PageKey) {
	if wasInUse {
		p.lookup[oldKey] = frameID
	}
	if fromFreeList {
		p.freeList = append(p.freeList, frameID)
		return
	}
	p.replacer.Unpin(frameID)
}

func (p *Pool) writeBackLocked(f *Frame) error {
	if err := p.disk.WritePage(f.Key.FileID, f.Key.PageID, f.Page.Buf); err != nil {
		return err
	}
	f.Dirty = false
	return nil
}

// UnpinPage decrements the pin count of a resident page, marking it dirty
// if isDirty (sticky: once dirty, stays dirty until write-back). Returns
// false if the page is not resident or already unpinned.
func (p *Pool) UnpinPage(fileID, pageID uint32, isDirty bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.lookup[PageKey{FileID: fileID, PageID: pageID}]
	if !ok {
		return false
	}
	f := p.frames[frameID]
	if f.PinCount == 0 {
		return false
	}
	if isDirty {
		f.Dirty = true
	}
	f.PinCount--
	if f.PinCount == 0 {
		p.replacer.Unpin(frameID)
	}
	return true
}

// FlushPage writes a resident page's dirty bytes to disk without evicting
// it. Returns false if the page is not resident.
func (p *Pool) FlushPage(fileID, pageID uint32) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.lookup[PageKey{FileID: fileID, PageID: pageID}]
	if !ok {
		return false, nil
	}
	f := p.frames[frameID]
	if f.Dirty {
		if err := p.writeBackLocked(f); err != nil {
			return false, err
		}
	}
	return true, nil
}

// DeletePage removes a resident page from the pool. Returns true
// immediately if the page was not resident. Returns false without
// mutating anything if the page is pinned.
func (p *Pool) DeletePage(fileID, pageID uint32) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := PageKey{FileID: fileID, PageID: pageID}
	frameID, ok := p.lookup[key]
	if !ok {
		return true, nil
	}
	f := p.frames[frameID]
	if f.PinCount > 0 {
		return false, nil
	}
	if f.Dirty {
		if err := p.writeBackLocked(f); err != nil {
			return false, err
		}
	}

	f.InUse = false
	f.Page = nil
	delete(p.lookup, key)
	p.replacer.Pin(frameID) // remove from candidacy, if present
	p.freeList = append(p.freeList, frameID)
	return true, nil
}

// FlushAllPages flushes every resident dirty page belonging to fileID.
func (p *Pool) FlushAllPages(fileID uint32) error {
	p.mu.Lock()
	keys := make([]PageKey, 0)
	for k := range p.lookup {
		if k.FileID == fileID {
			keys = append(keys, k)
		}
	}
	p.mu.Unlock()

	for _, k := range keys {
		if _, err := p.FlushPage(k.FileID, k.PageID); err != nil {
			return fmt.Errorf("flush all pages for file %d: %w", fileID, err)
		}
	}
	return nil
}

// DeleteAllPages deletes every resident page belonging to fileID,
// aggregating results with a logical AND: it returns false if any single
// page could not be deleted (because it was pinned).
func (p *Pool) DeleteAllPages(fileID uint32) (bool, error) {
	p.mu.Lock()
	keys := make([]PageKey, 0)
	for k := range p.lookup {
		if k.FileID == fileID {
			keys = append(keys, k)
		}
	}
	p.mu.Unlock()

	ok := true
	for _, k := range keys {
		deleted, err := p.DeletePage(k.FileID, k.PageID)
		if err != nil {
			return false, err
		}
		ok = ok && deleted
	}
	return ok, nil
}
