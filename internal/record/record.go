package record

import "github.com/tuannm99/pagedb/internal/storage"

// Record is a materialized row: the schema it was decoded against, its
// values, and the rid it was read from. Records built by operators rather
// than read from a table (join output, sort runs) carry the zero RID.
type Record struct {
	Schema Schema
	Values []any
	RID    storage.RID
}

// Project materializes a new Record containing only the columns named in
// out, in out's order. Column lookup is by name.
func (r Record) Project(out Schema) (Record, error) {
	values := make([]any, out.NumCols())
	for i, col := range out.Cols {
		idx := -1
		for j, src := range r.Schema.Cols {
			if src.Name == col.Name {
				idx = j
				break
			}
		}
		if idx == -1 {
			return Record{}, ErrSchemaMismatch
		}
		values[i] = r.Values[idx]
	}
	return Record{Schema: out, Values: values, RID: r.RID}, nil
}
