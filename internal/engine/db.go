// Package engine wires the disk manager, buffer pool, and table handle
// together behind a minimal table catalog: name to file id, schema, and
// storage model, persisted as a JSON sidecar file per table. The page
// count is kept in each table's header page, not in the sidecar. This is the
// bookkeeping a runnable program needs to exist, reduced to the minimum;
// no SQL parsing, planning, or catalog query surface is added.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tuannm99/pagedb/internal/buffer"
	"github.com/tuannm99/pagedb/internal/config"
	"github.com/tuannm99/pagedb/internal/record"
	"github.com/tuannm99/pagedb/internal/storage"
	"github.com/tuannm99/pagedb/internal/table"
)

var (
	ErrDatabaseClosed = errors.New("engine: database is closed")
	ErrTableNotFound  = errors.New("engine: table not found")
	ErrTableExists    = errors.New("engine: table already exists")
)

// TableMeta is the JSON sidecar persisted once per table: its assigned
// file id, schema and storage model. It holds no page count.
type TableMeta struct {
	Name      string        `json:"name"`
	FileID    uint32        `json:"file_id"`
	Schema    record.Schema `json:"schema"`
	Model     table.Model   `json:"model"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Database is the table catalog: it creates/opens tables, assigns file
// ids, and hands out a *buffer.Pool + *table.Handle pair to callers.
// Adapted from novasql's internal/engine.Database (JSON sidecar
// metadata, tableDir/tableMetaPath layout), generalized from a
// FileSet-per-table disk layout to a shared LocalDiskManager keyed by
// integer file id.
type Database struct {
	dataDir string
	cfg     config.EngineConfig
	disk    *storage.LocalDiskManager
	pool    *buffer.Pool

	mu     sync.Mutex
	nextID uint32
	closed bool
}

// Open creates or reopens a database rooted at dataDir using cfg's
// buffer pool and replacer settings.
func Open(dataDir string, cfg config.EngineConfig) (*Database, error) {
	disk, err := storage.NewLocalDiskManager(dataDir, cfg.PageSize)
	if err != nil {
		return nil, err
	}
	rep, err := buffer.NewReplacer(cfg.Replacer, cfg.LRUK)
	if err != nil {
		return nil, err
	}
	pool := buffer.NewPool(disk, cfg.PageSize, cfg.BufferPoolSize, rep)

	db := &Database{
		dataDir: dataDir,
		cfg:     cfg,
		disk:    disk,
		pool:    pool,
		nextID:  1, // file id 0 is never assigned to a table
	}

	metas, err := db.listMeta()
	if err != nil {
		return nil, err
	}
	for _, m := range metas {
		if m.FileID >= db.nextID {
			db.nextID = m.FileID + 1
		}
	}
	return db, nil
}

// Pool exposes the shared buffer pool, e.g. for executors that need to
// flush or inspect it directly.
func (db *Database) Pool() *buffer.Pool { return db.pool }

func (db *Database) metaDir() string {
	return filepath.Join(db.dataDir, "catalog")
}

func (db *Database) metaPath(name string) string {
	return filepath.Join(db.metaDir(), name+".meta.json")
}

func (db *Database) writeMeta(meta *TableMeta) error {
	if err := os.MkdirAll(db.metaDir(), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir catalog dir: %v", storage.ErrStorageIO, err)
	}
	meta.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(db.metaPath(meta.Name), data, 0o644)
}

func (db *Database) readMeta(name string) (*TableMeta, error) {
	data, err := os.ReadFile(db.metaPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("%w: read table meta: %v", storage.ErrStorageIO, err)
	}
	var meta TableMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (db *Database) listMeta() ([]*TableMeta, error) {
	entries, err := os.ReadDir(db.metaDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list catalog dir: %v", storage.ErrStorageIO, err)
	}
	var metas []*TableMeta
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(db.metaDir(), e.Name()))
		if err != nil {
			return nil, err
		}
		var meta TableMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, err
		}
		metas = append(metas, &meta)
	}
	return metas, nil
}

// CreateTable allocates a new file id, initializes its table header, and
// returns a handle over it. Raises ErrTableExists if name is already
// registered.
func (db *Database) CreateTable(name string, schema record.Schema, model table.Model) (*table.Handle, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil, ErrDatabaseClosed
	}

	if _, err := db.readMeta(name); err == nil {
		return nil, ErrTableExists
	} else if !errors.Is(err, ErrTableNotFound) {
		return nil, err
	}

	fileID := db.nextID
	db.nextID++

	if err := table.InitHeader(db.pool, fileID, schema); err != nil {
		return nil, err
	}

	meta := &TableMeta{
		Name:      name,
		FileID:    fileID,
		Schema:    schema,
		Model:     model,
		CreatedAt: time.Now(),
	}
	if err := db.writeMeta(meta); err != nil {
		return nil, err
	}

	return table.NewHandle(fileID, schema, db.pool, model), nil
}

// OpenTable returns a handle over an already-created table.
func (db *Database) OpenTable(name string) (*table.Handle, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil, ErrDatabaseClosed
	}

	meta, err := db.readMeta(name)
	if err != nil {
		return nil, err
	}
	return table.NewHandle(meta.FileID, meta.Schema, db.pool, meta.Model), nil
}

// Close flushes every resident dirty page and closes the underlying disk
// files. Further catalog operations after Close return ErrDatabaseClosed.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true

	metas, err := db.listMeta()
	if err != nil {
		return err
	}

	var flushErr error
	for _, m := range metas {
		if err := db.pool.FlushAllPages(m.FileID); err != nil && flushErr == nil {
			flushErr = err
		}
	}

	if err := db.disk.Close(); err != nil {
		if flushErr != nil {
			return fmt.Errorf("%w (after flush error: %v)", err, flushErr)
		}
		return err
	}
	return flushErr
}
