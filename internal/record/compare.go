package record

import "fmt"

// CompareValues orders two values of the same declared column type,
// following novasql's type-switch-on-schema style (matchWhere in its SQL
// executor) rather than a generic reflect-based comparison.
// A nil value sorts before any non-nil value of the same column.
func CompareValues(t ColumnType, a, b any) (int, error) {
	if a == nil && b == nil {
		return 0, nil
	}
	if a == nil {
		return -1, nil
	}
	if b == nil {
		return 1, nil
	}

	switch t {
	case ColInt32:
		x, ok1 := a.(int32)
		y, ok2 := b.(int32)
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("record: compare type mismatch for int32")
		}
		return compareOrdered(x, y), nil
	case ColInt64:
		x, ok1 := a.(int64)
		y, ok2 := b.(int64)
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("record: compare type mismatch for int64")
		}
		return compareOrdered(x, y), nil
	case ColFloat64:
		x, ok1 := a.(float64)
		y, ok2 := b.(float64)
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("record: compare type mismatch for float64")
		}
		return compareOrdered(x, y), nil
	case ColBool:
		x, ok1 := a.(bool)
		y, ok2 := b.(bool)
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("record: compare type mismatch for bool")
		}
		return compareOrdered(boolToInt(x), boolToInt(y)), nil
	case ColText:
		x, ok1 := a.(string)
		y, ok2 := b.(string)
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("record: compare type mismatch for text")
		}
		return compareOrdered(x, y), nil
	case ColBytes:
		x, ok1 := a.([]byte)
		y, ok2 := b.([]byte)
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("record: compare type mismatch for bytes")
		}
		n := len(x)
		if len(y) < n {
			n = len(y)
		}
		for i := 0; i < n; i++ {
			if x[i] != y[i] {
				return compareOrdered(x[i], y[i]), nil
			}
		}
		return compareOrdered(len(x), len(y)), nil
	default:
		return 0, ErrUnsupportedType
	}
}

func compareOrdered[T int | int32 | int64 | float64 | string | byte](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// EqualValues reports whether a and b are equal under the natural Go
// comparison for the column's type, used by join condition evaluation.
func EqualValues(t ColumnType, a, b any) (bool, error) {
	c, err := CompareValues(t, a, b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}
