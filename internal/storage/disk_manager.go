package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var logPrefix = "storage: "

// DiskManager is the block I/O contract the buffer pool reads from and
// writes back to. Reading a previously unwritten page returns a zero
// buffer, never an error.
type DiskManager interface {
	ReadPage(fileID, pageID uint32, buf []byte) error
	WritePage(fileID, pageID uint32, buf []byte) error
	GetFileName(fileID uint32) (string, error)
}

// LocalDiskManager implements DiskManager over the local filesystem, one
// *os.File per file_id, opened lazily and cached. Generalizes novasql's
// single-file Pager (one seek+ReadFull/Write pair per page) to many
// files keyed by an integer id rather than one file for the whole
// database.
type LocalDiskManager struct {
	dir      string
	pageSize int

	mu    sync.Mutex
	files map[uint32]*os.File
}

// NewLocalDiskManager creates a disk manager rooted at dir. dir is created
// if it does not already exist.
func NewLocalDiskManager(dir string, pageSize int) (*LocalDiskManager, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir data dir: %v", ErrStorageIO, err)
	}
	return &LocalDiskManager{
		dir:      dir,
		pageSize: pageSize,
		files:    make(map[uint32]*os.File),
	}, nil
}

func (d *LocalDiskManager) GetFileName(fileID uint32) (string, error) {
	return filepath.Join(d.dir, fmt.Sprintf("file_%d.db", fileID)), nil
}

func (d *LocalDiskManager) fileLocked(fileID uint32) (*os.File, error) {
	if f, ok := d.files[fileID]; ok {
		return f, nil
	}
	name, _ := d.GetFileName(fileID)
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorageIO, name, err)
	}
	d.files[fileID] = f
	return f, nil
}

// ReadPage fills buf (len(buf) == pageSize) with the contents of page
// pageID of file fileID. A page beyond the current end of file reads as
// all zeros.
func (d *LocalDiskManager) ReadPage(fileID, pageID uint32, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.fileLocked(fileID)
	if err != nil {
		return err
	}

	offset := int64(pageID) * int64(d.pageSize)
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat: %v", ErrStorageIO, err)
	}
	if offset >= info.Size() {
		for i := range buf {
			buf[i] = 0
		}
		slog.Debug(logPrefix+"read beyond EOF, zero page", "fileID", fileID, "pageID", pageID)
		return nil
	}

	if _, err := f.ReadAt(buf, offset); err != nil && err != io.EOF {
		return fmt.Errorf("%w: read page %d/%d: %v", ErrStorageIO, fileID, pageID, err)
	}
	return nil
}

// WritePage writes buf (len(buf) == pageSize) to page pageID of file
// fileID, extending the file with zero pages if necessary.
func (d *LocalDiskManager) WritePage(fileID, pageID uint32, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.fileLocked(fileID)
	if err != nil {
		return err
	}

	offset := int64(pageID) * int64(d.pageSize)
	if _, err := f.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("%w: write page %d/%d: %v", ErrStorageIO, fileID, pageID, err)
	}
	return nil
}

// Close closes every cached file handle.
func (d *LocalDiskManager) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var firstErr error
	for id, f := range d.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: close file %d: %v", ErrStorageIO, id, err)
		}
	}
	d.files = make(map[uint32]*os.File)
	return firstErr
}
