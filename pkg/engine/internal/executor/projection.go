package executor

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/quarrydb/quarry/pkg/engine/internal/datatype"
	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

// ProjectionExec keeps the columns of its input at the given indices, in
// the given order. It has the partitioning of its input.
type ProjectionExec struct {
	input   ExecutionPlan
	columns []int
	schema  *arrow.Schema
}

var _ ExecutionPlan = (*ProjectionExec)(nil)

// NewProjectionExec creates a new ProjectionExec.
func NewProjectionExec(input ExecutionPlan, columns []int) (*ProjectionExec, error) {
	if columns == nil {
		columns = []int{}
	}
	schema, err := projectSchema(input.Schema(), columns)
	if err != nil {
		return nil, err
	}
	return &ProjectionExec{input: input, columns: columns, schema: schema}, nil
}

// Schema implements ExecutionPlan.
func (p *ProjectionExec) Schema() *arrow.Schema { return p.schema }

// Children implements ExecutionPlan.
func (p *ProjectionExec) Children() []ExecutionPlan { return []ExecutionPlan{p.input} }

// OutputPartitioning implements ExecutionPlan.
func (p *ProjectionExec) OutputPartitioning() Partitioning { return p.input.OutputPartitioning() }

// WithNewChildren implements ExecutionPlan. The new input must have the same
// schema shape as the current one.
func (p *ProjectionExec) WithNewChildren(children []ExecutionPlan) (ExecutionPlan, error) {
	if err := checkChildren("ProjectionExec", 1, children); err != nil {
		return nil, err
	}
	if !datatype.SameShape(p.input.Schema(), children[0].Schema()) {
		return nil, fmt.Errorf("%w: ProjectionExec input has schema %s, want shape of %s", errors.ErrStructure, children[0].Schema(), p.input.Schema())
	}
	return NewProjectionExec(children[0], p.columns)
}

// Execute implements ExecutionPlan.
func (p *ProjectionExec) Execute(ctx context.Context, partition int) (Pipeline, error) {
	if err := checkPartition("ProjectionExec", p, partition); err != nil {
		return nil, err
	}
	input, err := p.input.Execute(ctx, partition)
	if err != nil {
		return nil, err
	}
	return tracePipeline("ProjectionExec", newGenericPipeline(func(ctx context.Context, inputs []Pipeline) (arrow.Record, error) {
		rec, err := inputs[0].Read(ctx)
		if err != nil {
			return nil, err
		}
		defer rec.Release()
		return projectRecord(p.schema, rec, p.columns), nil
	}, input)), nil
}
