package executor

import (
	"errors"

	"github.com/tuannm99/pagedb/internal/record"
	"github.com/tuannm99/pagedb/internal/storage"
	"github.com/tuannm99/pagedb/internal/table"
)

// TableScan is the leaf operator every other executor ultimately pulls
// from. It wraps table.Handle's rid cursor (GetFirstRID/GetNextRID) and
// materializes each record via GetRecord, restructuring novasql's
// push-style Scan callback into a pull cursor.
type TableScan struct {
	handle *table.Handle

	rid     storage.RID
	rec     record.Record
	atEnd   bool
	started bool
}

// NewTableScan returns a scan over every live record in handle, visited
// in (page_id, slot_id) order.
func NewTableScan(handle *table.Handle) *TableScan {
	return &TableScan{handle: handle}
}

func (s *TableScan) Init() error {
	rid, err := s.handle.GetFirstRID()
	if err != nil {
		return err
	}
	s.rid = rid
	s.started = true
	s.atEnd = rid == storage.InvalidRID
	if !s.atEnd {
		rec, err := s.handle.GetRecord(rid)
		if err != nil {
			return err
		}
		s.rec = rec
	}
	return nil
}

func (s *TableScan) Next() error {
	if !s.started {
		return errors.New("executor: Next called before Init")
	}
	if s.atEnd {
		return nil
	}
	rid, err := s.handle.GetNextRID(s.rid)
	if err != nil {
		return err
	}
	s.rid = rid
	if rid == storage.InvalidRID {
		s.atEnd = true
		return nil
	}
	rec, err := s.handle.GetRecord(rid)
	if err != nil {
		return err
	}
	s.rec = rec
	return nil
}

func (s *TableScan) IsEnd() bool { return s.atEnd }

func (s *TableScan) GetRecord() record.Record { return s.rec }

func (s *TableScan) GetOutSchema() record.Schema { return s.handle.Schema() }
