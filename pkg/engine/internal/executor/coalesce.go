package executor

import (
	"context"
	"errors"

	"github.com/apache/arrow-go/v18/arrow"
)

// CoalescePartitionsExec merges all partitions of its input into a single
// partition. Input partitions are read one after the other, in partition
// order; records of one partition are never interleaved with another.
//
// With a positive prefetch, up to prefetch upcoming partitions are started
// in the background while the current one is consumed.
type CoalescePartitionsExec struct {
	input    ExecutionPlan
	prefetch int
}

var _ ExecutionPlan = (*CoalescePartitionsExec)(nil)

// NewCoalescePartitionsExec creates a new CoalescePartitionsExec. A negative
// prefetch is treated as zero.
func NewCoalescePartitionsExec(input ExecutionPlan, prefetch int) *CoalescePartitionsExec {
	return &CoalescePartitionsExec{input: input, prefetch: max(prefetch, 0)}
}

// Schema implements ExecutionPlan.
func (c *CoalescePartitionsExec) Schema() *arrow.Schema { return c.input.Schema() }

// Children implements ExecutionPlan.
func (c *CoalescePartitionsExec) Children() []ExecutionPlan { return []ExecutionPlan{c.input} }

// OutputPartitioning implements ExecutionPlan.
func (c *CoalescePartitionsExec) OutputPartitioning() Partitioning { return UnknownPartitioning(1) }

// WithNewChildren implements ExecutionPlan.
func (c *CoalescePartitionsExec) WithNewChildren(children []ExecutionPlan) (ExecutionPlan, error) {
	if err := checkChildren("CoalescePartitionsExec", 1, children); err != nil {
		return nil, err
	}
	return NewCoalescePartitionsExec(children[0], c.prefetch), nil
}

// Execute implements ExecutionPlan.
func (c *CoalescePartitionsExec) Execute(_ context.Context, partition int) (Pipeline, error) {
	if err := checkPartition("CoalescePartitionsExec", c, partition); err != nil {
		return nil, err
	}
	return tracePipeline("CoalescePartitionsExec", &coalescePipeline{
		input:    c.input,
		total:    c.input.OutputPartitioning().PartitionCount(),
		prefetch: c.prefetch,
	}), nil
}

// coalescePipeline reads the partitions of an input plan sequentially.
// Partitions are only executed once they are needed, or when they fall
// within the prefetch window.
type coalescePipeline struct {
	input    ExecutionPlan
	total    int
	prefetch int

	next    int        // next partition to execute
	current Pipeline   // partition being read
	pending []Pipeline // executed partitions waiting to be read, in order
}

var _ Pipeline = (*coalescePipeline)(nil)

// Read implements Pipeline.
func (p *coalescePipeline) Read(ctx context.Context) (arrow.Record, error) {
	for {
		if p.current == nil {
			if err := p.advance(ctx); err != nil {
				return nil, err
			}
			if p.current == nil {
				return nil, EOF
			}
		}

		rec, err := p.current.Read(ctx)
		if errors.Is(err, EOF) {
			p.current.Close()
			p.current = nil
			continue
		} else if err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// advance moves to the next partition and fills the prefetch window.
func (p *coalescePipeline) advance(ctx context.Context) error {
	if len(p.pending) == 0 && p.next < p.total {
		if err := p.open(ctx); err != nil {
			return err
		}
	}
	if len(p.pending) == 0 {
		return nil
	}

	p.current, p.pending = p.pending[0], p.pending[1:]
	for len(p.pending) < p.prefetch && p.next < p.total {
		if err := p.open(ctx); err != nil {
			return err
		}
	}
	return nil
}

// open executes the next partition of the input and appends it to pending.
func (p *coalescePipeline) open(ctx context.Context) error {
	pipeline, err := p.input.Execute(ctx, p.next)
	if err != nil {
		return err
	}
	p.next++

	if p.prefetch > 0 {
		wrapped := newPrefetchingPipeline(pipeline)
		wrapped.init(ctx)
		pipeline = wrapped
	}
	p.pending = append(p.pending, pipeline)
	return nil
}

// Close implements Pipeline.
func (p *coalescePipeline) Close() {
	if p.current != nil {
		p.current.Close()
		p.current = nil
	}
	for _, pending := range p.pending {
		pending.Close()
	}
	p.pending = nil
}
