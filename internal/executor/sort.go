package executor

import (
	"bufio"
	"container/heap"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	gosort "sort"
	"sync/atomic"

	"github.com/tuannm99/pagedb/internal/record"
)

// sortFileCounter is the process-wide monotonically increasing counter
// used in temp file names. It is not stable across restarts; since temp
// files are removed at operator teardown, that is acceptable.
var sortFileCounter atomic.Int64

// Sort buffers its child's output in chunks of max_rec_num records,
// where max_rec_num = sortBufferSize / (nullmap_size + record_length) of
// the child's output schema. When the entire child output fits in one
// chunk it sorts in memory; otherwise it spills sorted runs to temp
// files and performs k-way heap merges until one file remains.
type Sort struct {
	child      Executor
	keySchema  record.Schema
	ascending  bool
	bufferSize int
	tmpDir     string
	id         int64

	outSchema record.Schema

	rows []record.Record
	pos  int

	external  bool
	reader    *runReader
	finalPath string
	cur       record.Record
	atEnd     bool
}

// NewSort returns a sort operator over child, ordering by keySchema's
// columns (projected from the child's output) ascending or descending.
// sortBufferSizeBytes bounds the in-memory chunk size; tmpDir is where
// spilled runs are written when external merging is required.
func NewSort(child Executor, keySchema record.Schema, ascending bool, sortBufferSizeBytes int, tmpDir string) *Sort {
	return &Sort{
		child:      child,
		keySchema:  keySchema,
		ascending:  ascending,
		bufferSize: sortBufferSizeBytes,
		tmpDir:     tmpDir,
	}
}

func (s *Sort) compare(a, b record.Record) (int, error) {
	ka, err := a.Project(s.keySchema)
	if err != nil {
		return 0, err
	}
	kb, err := b.Project(s.keySchema)
	if err != nil {
		return 0, err
	}
	for i, col := range s.keySchema.Cols {
		c, err := record.CompareValues(col.Type, ka.Values[i], kb.Values[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			if !s.ascending {
				c = -c
			}
			return c, nil
		}
	}
	return 0, nil
}

func (s *Sort) sortRows(rows []record.Record) error {
	var sortErr error
	gosort.SliceStable(rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := s.compare(rows[i], rows[j])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	return sortErr
}

func (s *Sort) runPath(group, index int) string {
	return filepath.Join(s.tmpDir, fmt.Sprintf("sort_result_%d_%d_%d", s.id, group, index))
}

func (s *Sort) Init() error {
	if err := s.child.Init(); err != nil {
		return err
	}
	s.outSchema = s.child.GetOutSchema()
	unitSize := s.outSchema.NullmapSize() + s.outSchema.RecordLength()
	maxRecNum := s.bufferSize / unitSize
	if maxRecNum < 1 {
		maxRecNum = 1
	}
	s.id = sortFileCounter.Add(1)

	var chunk []record.Record
	var group0 []string

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := s.sortRows(chunk); err != nil {
			return err
		}
		path := s.runPath(0, len(group0))
		if err := writeRun(path, s.outSchema, chunk); err != nil {
			return err
		}
		group0 = append(group0, path)
		chunk = nil
		return nil
	}

	for !s.child.IsEnd() {
		chunk = append(chunk, s.child.GetRecord())
		if err := s.child.Next(); err != nil {
			return err
		}
		if len(chunk) == maxRecNum && !s.child.IsEnd() {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if len(group0) == 0 {
		// Entire output fit in one chunk: sort in memory, no spill.
		if err := s.sortRows(chunk); err != nil {
			return err
		}
		s.rows = chunk
		s.atEnd = len(s.rows) == 0
		return nil
	}

	if err := flush(); err != nil {
		return err
	}

	s.external = true
	finalPath, err := s.mergePasses(group0, maxRecNum)
	if err != nil {
		return err
	}
	s.finalPath = finalPath

	reader, err := newRunReader(finalPath, s.outSchema)
	if err != nil {
		return err
	}
	s.reader = reader
	return s.pullExternal()
}

// mergePasses repeatedly merges the current group of run files, fanIn at
// a time, into the next group, until a single file remains. Each
// consumed input file is removed once merged.
func (s *Sort) mergePasses(files []string, fanIn int) (string, error) {
	group := 1
	for len(files) > 1 {
		var next []string
		for start := 0; start < len(files); start += fanIn {
			end := start + fanIn
			if end > len(files) {
				end = len(files)
			}
			batch := files[start:end]
			out := s.runPath(group, len(next))
			if err := s.mergeRuns(batch, out); err != nil {
				return "", err
			}
			next = append(next, out)
		}
		files = next
		group++
	}
	return files[0], nil
}

// mergeEntry is one open input's current front record in the merge heap.
type mergeEntry struct {
	rec    record.Record
	stream int
	reader *runReader
}

type mergeHeap struct {
	entries []*mergeEntry
	cmp     func(a, b record.Record) (int, error)
	err     error
}

func (h *mergeHeap) Len() int { return len(h.entries) }
func (h *mergeHeap) Less(i, j int) bool {
	if h.err != nil {
		return false
	}
	c, err := h.cmp(h.entries[i].rec, h.entries[j].rec)
	if err != nil {
		h.err = err
		return false
	}
	if c != 0 {
		return c < 0
	}
	// Keys tie: break by input-stream index ascending for a stable merge.
	return h.entries[i].stream < h.entries[j].stream
}
func (h *mergeHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }
func (h *mergeHeap) Push(x any)    { h.entries = append(h.entries, x.(*mergeEntry)) }
func (h *mergeHeap) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	h.entries = old[:n-1]
	return e
}

// mergeRuns merges the sorted files in inputs into a single sorted file
// at out, reading one record at a time from each input via a size-|inputs|
// heap, and removes every input file once it is fully consumed.
func (s *Sort) mergeRuns(inputs []string, out string) error {
	readers := make([]*runReader, len(inputs))
	for i, p := range inputs {
		r, err := newRunReader(p, s.outSchema)
		if err != nil {
			return err
		}
		readers[i] = r
	}
	defer func() {
		for i, r := range readers {
			r.Close()
			os.Remove(inputs[i])
		}
	}()

	h := &mergeHeap{cmp: s.compare}
	heap.Init(h)
	for i, r := range readers {
		rec, ok, err := r.Read()
		if err != nil {
			return err
		}
		if ok {
			heap.Push(h, &mergeEntry{rec: rec, stream: i, reader: r})
		}
	}

	w, err := newRunWriter(out, s.outSchema)
	if err != nil {
		return err
	}
	defer w.Close()

	for h.Len() > 0 {
		top := heap.Pop(h).(*mergeEntry)
		if h.err != nil {
			return h.err
		}
		if err := w.Write(top.rec); err != nil {
			return err
		}
		rec, ok, err := top.reader.Read()
		if err != nil {
			return err
		}
		if ok {
			heap.Push(h, &mergeEntry{rec: rec, stream: top.stream, reader: top.reader})
		}
	}
	return w.Flush()
}

func (s *Sort) pullExternal() error {
	rec, ok, err := s.reader.Read()
	if err != nil {
		return err
	}
	if !ok {
		s.atEnd = true
		return nil
	}
	s.cur = rec
	return nil
}

func (s *Sort) Next() error {
	if s.external {
		if s.atEnd {
			return nil
		}
		return s.pullExternal()
	}
	if s.pos < len(s.rows) {
		s.pos++
	}
	s.atEnd = s.pos >= len(s.rows)
	return nil
}

func (s *Sort) IsEnd() bool {
	if s.external {
		return s.atEnd
	}
	return s.pos >= len(s.rows)
}

func (s *Sort) GetRecord() record.Record {
	if s.external {
		return s.cur
	}
	return s.rows[s.pos]
}

func (s *Sort) GetOutSchema() record.Schema { return s.outSchema }

// Close removes the final merged file, if any was created. Callers that
// run an external sort to completion must call Close when done with the
// operator; in-memory sorts have nothing to remove.
func (s *Sort) Close() error {
	if s.reader != nil {
		s.reader.Close()
	}
	if s.finalPath != "" {
		return os.Remove(s.finalPath)
	}
	return nil
}

// runWriter packs records as schema.NullmapSize()+schema.RecordLength()
// byte frames with no inter-record framing, since the length is known
// from the schema.
type runWriter struct {
	f *os.File
	w *bufio.Writer
	s record.Schema
}

func newRunWriter(path string, s record.Schema) (*runWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &runWriter{f: f, w: bufio.NewWriter(f), s: s}, nil
}

func (w *runWriter) Write(rec record.Record) error {
	body, nullmap, err := record.EncodeBody(w.s, rec.Values)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(nullmap); err != nil {
		return err
	}
	if _, err := w.w.Write(body); err != nil {
		return err
	}
	return nil
}

func (w *runWriter) Flush() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.f.Close()
}

func (w *runWriter) Close() error { return w.f.Close() }

type runReader struct {
	f           *os.File
	r           *bufio.Reader
	s           record.Schema
	nullmapSize int
	bodySize    int
}

func newRunReader(path string, s record.Schema) (*runReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &runReader{
		f:           f,
		r:           bufio.NewReader(f),
		s:           s,
		nullmapSize: s.NullmapSize(),
		bodySize:    s.RecordLength(),
	}, nil
}

// Read returns the next record, or ok=false at end of file.
func (r *runReader) Read() (record.Record, bool, error) {
	nullmap := make([]byte, r.nullmapSize)
	if _, err := io.ReadFull(r.r, nullmap); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return record.Record{}, false, nil
		}
		return record.Record{}, false, err
	}
	body := make([]byte, r.bodySize)
	if _, err := io.ReadFull(r.r, body); err != nil {
		return record.Record{}, false, err
	}
	values, err := record.DecodeBody(r.s, body, nullmap)
	if err != nil {
		return record.Record{}, false, err
	}
	return record.Record{Schema: r.s, Values: values}, true, nil
}

func (r *runReader) Close() error { return r.f.Close() }
