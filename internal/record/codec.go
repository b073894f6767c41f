package record

import (
	"encoding/binary"
	"math"
)

// EncodeBody writes values into a fixed-length buffer of exactly
// s.RecordLength() bytes, separate from the null bitmap (which the page
// handle places, since it sits at the front of each slot on N-ary pages
// and in a separate nullmap stripe on PAX pages). The null bitmap for this
// row is returned alongside so callers can write both in one slot.
func EncodeBody(s Schema, values []any) (body []byte, nullmap []byte, err error) {
	if len(values) != s.NumCols() {
		return nil, nil, ErrSchemaMismatch
	}

	body = make([]byte, s.RecordLength())
	nullmap = make([]byte, s.NullmapSize())

	off := 0
	for i, col := range s.Cols {
		w := col.Width()
		v := values[i]
		if v == nil {
			if !col.Nullable {
				return nil, nil, ErrSchemaMismatch
			}
			nullmap[i/8] |= 1 << uint(i%8)
			off += w
			continue
		}

		dst := body[off : off+w]
		switch col.Type {
		case ColInt32:
			x, ok := asInt32(v)
			if !ok {
				return nil, nil, ErrSchemaMismatch
			}
			binary.LittleEndian.PutUint32(dst, uint32(x))

		case ColInt64:
			x, ok := asInt64(v)
			if !ok {
				return nil, nil, ErrSchemaMismatch
			}
			binary.LittleEndian.PutUint64(dst, uint64(x))

		case ColBool:
			x, ok := v.(bool)
			if !ok {
				return nil, nil, ErrSchemaMismatch
			}
			if x {
				dst[0] = 1
			}

		case ColFloat64:
			x, ok := asFloat64(v)
			if !ok {
				return nil, nil, ErrSchemaMismatch
			}
			binary.LittleEndian.PutUint64(dst, math.Float64bits(x))

		case ColText:
			str, ok := v.(string)
			if !ok {
				return nil, nil, ErrSchemaMismatch
			}
			if len(str) > col.MaxLen {
				return nil, nil, ErrValueTooLong
			}
			binary.LittleEndian.PutUint16(dst[0:2], uint16(len(str)))
			copy(dst[2:], str)

		case ColBytes:
			bs, ok := v.([]byte)
			if !ok {
				return nil, nil, ErrSchemaMismatch
			}
			if len(bs) > col.MaxLen {
				return nil, nil, ErrValueTooLong
			}
			binary.LittleEndian.PutUint16(dst[0:2], uint16(len(bs)))
			copy(dst[2:], bs)

		default:
			return nil, nil, ErrUnsupportedType
		}
		off += w
	}
	return body, nullmap, nil
}

// DecodeBody is the inverse of EncodeBody.
func DecodeBody(s Schema, body, nullmap []byte) ([]any, error) {
	if len(body) != s.RecordLength() || len(nullmap) != s.NullmapSize() {
		return nil, ErrBadBuffer
	}

	values := make([]any, s.NumCols())
	off := 0
	for i, col := range s.Cols {
		w := col.Width()
		isNull := nullmap[i/8]>>uint(i%8)&1 == 1
		if isNull {
			values[i] = nil
			off += w
			continue
		}

		src := body[off : off+w]
		switch col.Type {
		case ColInt32:
			values[i] = int32(binary.LittleEndian.Uint32(src))
		case ColInt64:
			values[i] = int64(binary.LittleEndian.Uint64(src))
		case ColBool:
			values[i] = src[0] != 0
		case ColFloat64:
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(src))
		case ColText:
			l := int(binary.LittleEndian.Uint16(src[0:2]))
			if 2+l > len(src) {
				return nil, ErrBadBuffer
			}
			values[i] = string(src[2 : 2+l])
		case ColBytes:
			l := int(binary.LittleEndian.Uint16(src[0:2]))
			if 2+l > len(src) {
				return nil, ErrBadBuffer
			}
			cp := make([]byte, l)
			copy(cp, src[2:2+l])
			values[i] = cp
		default:
			return nil, ErrUnsupportedType
		}
		off += w
	}
	return values, nil
}

func asInt32(v any) (int32, bool) {
	switch x := v.(type) {
	case int32:
		return x, true
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), true
		}
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), true
		}
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}
