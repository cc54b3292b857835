package executor

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

// UnionExec exposes N inputs as one operator with N partitions (UNION ALL).
// Rows are neither merged nor reordered: partition p of the union is the
// first partition of input p.
//
// Inputs are expected to produce a single partition. Only partition 0 of
// an input is ever read; further partitions of multi-partition inputs are
// not part of the union's output.
//
// All inputs are assumed to share the schema of the first input; reconciling
// schemas is the responsibility of the planner.
type UnionExec struct {
	inputs []ExecutionPlan
}

var _ ExecutionPlan = (*UnionExec)(nil)

// NewUnionExec creates a UnionExec over inputs. It fails if inputs is empty.
func NewUnionExec(inputs []ExecutionPlan) (*UnionExec, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: union requires at least one input", errors.ErrStructure)
	}
	return &UnionExec{inputs: append([]ExecutionPlan(nil), inputs...)}, nil
}

// Schema implements ExecutionPlan.
func (u *UnionExec) Schema() *arrow.Schema { return u.inputs[0].Schema() }

// Children implements ExecutionPlan.
func (u *UnionExec) Children() []ExecutionPlan {
	return append([]ExecutionPlan(nil), u.inputs...)
}

// OutputPartitioning implements ExecutionPlan. The union has one partition
// per input.
func (u *UnionExec) OutputPartitioning() Partitioning {
	return UnknownPartitioning(len(u.inputs))
}

// WithNewChildren implements ExecutionPlan. The number of children must be
// equal to the number of inputs of u.
func (u *UnionExec) WithNewChildren(children []ExecutionPlan) (ExecutionPlan, error) {
	if err := checkChildren("UnionExec", len(u.inputs), children); err != nil {
		return nil, err
	}
	return NewUnionExec(children)
}

// Execute implements ExecutionPlan. It returns the stream of partition 0 of
// input partition.
func (u *UnionExec) Execute(ctx context.Context, partition int) (Pipeline, error) {
	if err := checkPartition("UnionExec", u, partition); err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).AddEvent("UnionExec.Execute", trace.WithAttributes(
		attribute.Int("partition", partition),
		attribute.Int("num_inputs", len(u.inputs)),
	))
	return u.inputs[partition].Execute(ctx, 0)
}
