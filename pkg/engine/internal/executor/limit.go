package executor

import (
	"context"
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/quarrydb/quarry/pkg/engine/internal/datatype"
	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

// LimitExec skips the first skip rows and then produces at most fetch rows.
// The limit is applied to each partition independently; to limit the whole
// output of a multi-partition input, coalesce its partitions first.
type LimitExec struct {
	input ExecutionPlan
	skip  uint64
	fetch uint64
}

var _ ExecutionPlan = (*LimitExec)(nil)

// NewLimitExec creates a new LimitExec.
func NewLimitExec(input ExecutionPlan, skip, fetch uint64) *LimitExec {
	return &LimitExec{input: input, skip: skip, fetch: fetch}
}

// Schema implements ExecutionPlan.
func (l *LimitExec) Schema() *arrow.Schema { return l.input.Schema() }

// Children implements ExecutionPlan.
func (l *LimitExec) Children() []ExecutionPlan { return []ExecutionPlan{l.input} }

// OutputPartitioning implements ExecutionPlan.
func (l *LimitExec) OutputPartitioning() Partitioning { return l.input.OutputPartitioning() }

// WithNewChildren implements ExecutionPlan.
func (l *LimitExec) WithNewChildren(children []ExecutionPlan) (ExecutionPlan, error) {
	if err := checkChildren("LimitExec", 1, children); err != nil {
		return nil, err
	}
	if !datatype.SameShape(l.input.Schema(), children[0].Schema()) {
		return nil, fmt.Errorf("%w: LimitExec input has schema %s, want shape of %s", errors.ErrStructure, children[0].Schema(), l.input.Schema())
	}
	return NewLimitExec(children[0], l.skip, l.fetch), nil
}

// Execute implements ExecutionPlan.
func (l *LimitExec) Execute(ctx context.Context, partition int) (Pipeline, error) {
	if err := checkPartition("LimitExec", l, partition); err != nil {
		return nil, err
	}
	input, err := l.input.Execute(ctx, partition)
	if err != nil {
		return nil, err
	}
	return tracePipeline("LimitExec", newLimitPipeline(input, l.skip, l.fetch)), nil
}

func newLimitPipeline(input Pipeline, skip, fetch uint64) *GenericPipeline {
	// offsetRemaining and limitRemaining are reduced as records are
	// processed, since both may cross record boundaries.
	var (
		offsetRemaining = clampInt64(skip)
		limitRemaining  = clampInt64(fetch)
	)

	return newGenericPipeline(func(ctx context.Context, inputs []Pipeline) (arrow.Record, error) {
		for {
			if limitRemaining <= 0 {
				return nil, EOF
			}

			batch, err := inputs[0].Read(ctx)
			if err != nil {
				return nil, err
			}

			// Constrain the slice to the bounds of the record, accounting
			// for both offset and limit.
			start := min(offsetRemaining, batch.NumRows())
			end := min(start+limitRemaining, batch.NumRows())
			length := end - start

			offsetRemaining -= start
			limitRemaining -= length

			// Records consumed entirely by the offset are skipped.
			if length == 0 {
				batch.Release()
				continue
			}
			if start == 0 && end == batch.NumRows() {
				return batch, nil
			}

			sliced := batch.NewSlice(start, end)
			batch.Release()
			return sliced, nil
		}
	}, input)
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
