package executor

import "github.com/tuannm99/pagedb/internal/record"

// JoinType selects which side's unmatched rows are preserved with nulls.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
)

// JoinCondition is one conjunct of the join condition vector, evaluated
// against a candidate (left, right) record pair.
type JoinCondition func(left, right record.Record) (bool, error)

// NestedLoopJoin implements the four join types over a left (outer) and
// right (inner) child. For each outer row the inner child is
// re-initialized and scanned to completion, per the iterator contract's
// committed resolution of the re-init-vs-materialize-once question.
// Output ordering is left-outer-first: matched and left-unmatched rows
// appear in (outer position, inner position) order as they are produced
// by the nested scan, followed by any right-unmatched rows for outer
// joins on the right side.
//
// The full result is computed once in Init and buffered; Next/IsEnd/
// GetRecord then iterate the buffer. This is observationally equivalent
// to a lazily-pulled nested loop (same records, same order) and is the
// only way to know, before emitting them, which right rows were never
// matched by any left row.
type NestedLoopJoin struct {
	left, right Executor
	joinType    JoinType
	conds       []JoinCondition
	outSchema   record.Schema

	rows []record.Record
	pos  int
}

func NewNestedLoopJoin(left, right Executor, joinType JoinType, conds []JoinCondition) *NestedLoopJoin {
	return &NestedLoopJoin{left: left, right: right, joinType: joinType, conds: conds}
}

func concatSchema(a, b record.Schema) record.Schema {
	cols := make([]record.Column, 0, len(a.Cols)+len(b.Cols))
	cols = append(cols, a.Cols...)
	cols = append(cols, b.Cols...)
	return record.Schema{Cols: cols}
}

func concatRecord(out record.Schema, l, r record.Record) record.Record {
	values := make([]any, 0, len(out.Cols))
	values = append(values, l.Values...)
	values = append(values, r.Values...)
	return record.Record{Schema: out, Values: values}
}

func nullRecord(s record.Schema) record.Record {
	return record.Record{Schema: s, Values: make([]any, s.NumCols())}
}

func (j *NestedLoopJoin) evaluate(l, r record.Record) (bool, error) {
	for _, cond := range j.conds {
		ok, err := cond(l, r)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (j *NestedLoopJoin) Init() error {
	if err := j.left.Init(); err != nil {
		return err
	}
	leftSchema := j.left.GetOutSchema()

	if err := j.right.Init(); err != nil {
		return err
	}
	rightSchema := j.right.GetOutSchema()
	j.outSchema = concatSchema(leftSchema, rightSchema)

	var rightMatched []bool
	wantLeftUnmatched := j.joinType == LeftOuterJoin || j.joinType == FullOuterJoin
	wantRightUnmatched := j.joinType == RightOuterJoin || j.joinType == FullOuterJoin

	for !j.left.IsEnd() {
		leftRec := j.left.GetRecord()
		matchedThisOuter := false

		if err := j.right.Init(); err != nil {
			return err
		}
		idx := 0
		for !j.right.IsEnd() {
			rightRec := j.right.GetRecord()
			ok, err := j.evaluate(leftRec, rightRec)
			if err != nil {
				return err
			}
			if ok {
				j.rows = append(j.rows, concatRecord(j.outSchema, leftRec, rightRec))
				matchedThisOuter = true
				for len(rightMatched) <= idx {
					rightMatched = append(rightMatched, false)
				}
				rightMatched[idx] = true
			}
			idx++
			if err := j.right.Next(); err != nil {
				return err
			}
		}

		if !matchedThisOuter && wantLeftUnmatched {
			j.rows = append(j.rows, concatRecord(j.outSchema, leftRec, nullRecord(rightSchema)))
		}

		if err := j.left.Next(); err != nil {
			return err
		}
	}

	if wantRightUnmatched {
		if err := j.right.Init(); err != nil {
			return err
		}
		idx := 0
		for !j.right.IsEnd() {
			if idx >= len(rightMatched) || !rightMatched[idx] {
				j.rows = append(j.rows, concatRecord(j.outSchema, nullRecord(leftSchema), j.right.GetRecord()))
			}
			idx++
			if err := j.right.Next(); err != nil {
				return err
			}
		}
	}

	return nil
}

func (j *NestedLoopJoin) Next() error {
	if j.pos < len(j.rows) {
		j.pos++
	}
	return nil
}

func (j *NestedLoopJoin) IsEnd() bool { return j.pos >= len(j.rows) }

func (j *NestedLoopJoin) GetRecord() record.Record { return j.rows[j.pos] }

func (j *NestedLoopJoin) GetOutSchema() record.Schema { return j.outSchema }
