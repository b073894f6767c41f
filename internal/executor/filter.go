package executor

import "github.com/tuannm99/pagedb/internal/record"

// Predicate is a user-supplied pure boolean function of a record,
// matching novasql's matchWhere shape: schema-driven inspection of
// Values by the caller, not a generic expression tree.
type Predicate func(record.Record) (bool, error)

// Filter repeatedly pulls from its child until the predicate accepts a
// record or the child is exhausted. Output schema equals child schema.
type Filter struct {
	child Executor
	pred  Predicate

	atEnd bool
}

func NewFilter(child Executor, pred Predicate) *Filter {
	return &Filter{child: child, pred: pred}
}

func (f *Filter) Init() error {
	if err := f.child.Init(); err != nil {
		return err
	}
	return f.advance()
}

func (f *Filter) Next() error {
	if f.atEnd {
		return nil
	}
	if err := f.child.Next(); err != nil {
		return err
	}
	return f.advance()
}

// advance pulls the child forward, including the record currently
// staged, until the predicate accepts one or the child runs dry.
func (f *Filter) advance() error {
	for !f.child.IsEnd() {
		ok, err := f.pred(f.child.GetRecord())
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if err := f.child.Next(); err != nil {
			return err
		}
	}
	f.atEnd = true
	return nil
}

func (f *Filter) IsEnd() bool { return f.atEnd }

func (f *Filter) GetRecord() record.Record { return f.child.GetRecord() }

func (f *Filter) GetOutSchema() record.Schema { return f.child.GetOutSchema() }
