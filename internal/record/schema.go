// Package record defines the fixed-width row codec: schemas, columns, and
// the encode/decode functions that turn a slice of Go values into the
// constant-length byte layout the table handle requires for in-place
// update.
package record

import "errors"

type ColumnType uint8

const (
	ColInt32 ColumnType = iota
	ColInt64
	ColBool
	ColFloat64
	ColText  // UTF-8, fixed capacity MaxLen
	ColBytes // opaque bytes, fixed capacity MaxLen
)

// Column describes one field. MaxLen is only consulted for ColText and
// ColBytes; it is the fixed on-disk capacity reserved for the field,
// regardless of how much of it any given value actually uses.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
	MaxLen   int
}

// Width returns the fixed number of bytes this column occupies in the
// record body, excluding the null bitmap.
func (c Column) Width() int {
	switch c.Type {
	case ColInt32:
		return 4
	case ColInt64:
		return 8
	case ColBool:
		return 1
	case ColFloat64:
		return 8
	case ColText, ColBytes:
		// 2-byte actual-length prefix + MaxLen bytes of payload.
		return 2 + c.MaxLen
	default:
		return 0
	}
}

// Schema is an ordered list of columns with a constant record_size,
// required so that update_record can overwrite a slot in place.
type Schema struct {
	Cols []Column
}

func (s Schema) NumCols() int { return len(s.Cols) }

// RecordLength returns rec_size: the constant body length in bytes, sum
// of every column's fixed width.
func (s Schema) RecordLength() int {
	n := 0
	for _, c := range s.Cols {
		n += c.Width()
	}
	return n
}

// NullmapSize returns nullmap_size: ceil(NumCols/8) bytes.
func (s Schema) NullmapSize() int {
	return (s.NumCols() + 7) / 8
}

var (
	ErrSchemaMismatch  = errors.New("record: schema/values mismatch")
	ErrBadBuffer       = errors.New("record: buffer underflow/overflow")
	ErrValueTooLong    = errors.New("record: value exceeds column MaxLen")
	ErrUnsupportedType = errors.New("record: unsupported column type")
)
