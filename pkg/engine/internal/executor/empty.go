package executor

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// EmptyExec produces a single partition with no rows, or with a single row
// of nulls if produceOneRow is set.
type EmptyExec struct {
	schema        *arrow.Schema
	produceOneRow bool
	allocator     memory.Allocator
}

var _ ExecutionPlan = (*EmptyExec)(nil)

// NewEmptyExec creates a new EmptyExec.
func NewEmptyExec(schema *arrow.Schema, produceOneRow bool) *EmptyExec {
	return &EmptyExec{
		schema:        schema,
		produceOneRow: produceOneRow,
		allocator:     memory.DefaultAllocator,
	}
}

// Schema implements ExecutionPlan.
func (e *EmptyExec) Schema() *arrow.Schema { return e.schema }

// Children implements ExecutionPlan.
func (e *EmptyExec) Children() []ExecutionPlan { return nil }

// OutputPartitioning implements ExecutionPlan.
func (e *EmptyExec) OutputPartitioning() Partitioning { return UnknownPartitioning(1) }

// WithNewChildren implements ExecutionPlan.
func (e *EmptyExec) WithNewChildren(children []ExecutionPlan) (ExecutionPlan, error) {
	if err := checkChildren("EmptyExec", 0, children); err != nil {
		return nil, err
	}
	return e, nil
}

// Execute implements ExecutionPlan.
func (e *EmptyExec) Execute(_ context.Context, partition int) (Pipeline, error) {
	if err := checkPartition("EmptyExec", e, partition); err != nil {
		return nil, err
	}
	if !e.produceOneRow {
		return emptyPipeline(), nil
	}

	cols := make([]arrow.Array, e.schema.NumFields())
	for i, field := range e.schema.Fields() {
		cols[i] = array.MakeArrayOfNull(e.allocator, field.Type, 1)
		defer cols[i].Release()
	}
	rec := array.NewRecord(e.schema, cols, 1)
	defer rec.Release()
	return newBufferedPipeline(rec), nil
}
