package executor

import "github.com/tuannm99/pagedb/internal/record"

// Projection is a stateless transform of each child record into a record
// conforming to outSchema. IsEnd mirrors the child exactly.
type Projection struct {
	child     Executor
	outSchema record.Schema
	rec       record.Record
}

func NewProjection(child Executor, outSchema record.Schema) *Projection {
	return &Projection{child: child, outSchema: outSchema}
}

func (p *Projection) Init() error {
	if err := p.child.Init(); err != nil {
		return err
	}
	return p.project()
}

func (p *Projection) Next() error {
	if err := p.child.Next(); err != nil {
		return err
	}
	return p.project()
}

func (p *Projection) project() error {
	if p.child.IsEnd() {
		return nil
	}
	rec, err := p.child.GetRecord().Project(p.outSchema)
	if err != nil {
		return err
	}
	p.rec = rec
	return nil
}

func (p *Projection) IsEnd() bool { return p.child.IsEnd() }

func (p *Projection) GetRecord() record.Record { return p.rec }

func (p *Projection) GetOutSchema() record.Schema { return p.outSchema }
