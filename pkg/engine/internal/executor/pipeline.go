package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Pipeline is the stream of record batches produced by one partition of an
// [ExecutionPlan]. Pipelines are lazy, pull based and can be consumed once.
type Pipeline interface {
	// Read returns the next record of the pipeline. The caller owns the
	// returned record and must release it. Read returns [EOF] when the
	// pipeline is exhausted.
	Read(context.Context) (arrow.Record, error)
	// Close releases the resources of the pipeline, including all of its
	// inputs. Closing a pipeline before it is exhausted is allowed.
	Close()
}

var EOF = errors.New("pipeline exhausted") //nolint:revive,staticcheck

type state struct {
	batch arrow.Record
	err   error
}

type readFunc func(context.Context, []Pipeline) (arrow.Record, error)

// GenericPipeline is a [Pipeline] whose records are produced by a function
// over its inputs.
type GenericPipeline struct {
	inputs []Pipeline
	read   readFunc
}

func newGenericPipeline(read readFunc, inputs ...Pipeline) *GenericPipeline {
	return &GenericPipeline{
		read:   read,
		inputs: inputs,
	}
}

var _ Pipeline = (*GenericPipeline)(nil)

// Read implements Pipeline.
func (p *GenericPipeline) Read(ctx context.Context) (arrow.Record, error) {
	if p.read == nil {
		return nil, EOF
	}
	return p.read(ctx, p.inputs)
}

// Close implements Pipeline.
func (p *GenericPipeline) Close() {
	for _, inp := range p.inputs {
		inp.Close()
	}
}

func errorPipeline(ctx context.Context, err error) Pipeline {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return newGenericPipeline(func(_ context.Context, _ []Pipeline) (arrow.Record, error) {
		return nil, fmt.Errorf("failed to execute pipeline: %w", err)
	})
}

func emptyPipeline() Pipeline {
	return newGenericPipeline(func(_ context.Context, _ []Pipeline) (arrow.Record, error) {
		return nil, EOF
	})
}

// bufferedPipeline returns a fixed sequence of records in order.
type bufferedPipeline struct {
	records []arrow.Record
	current int
}

var _ Pipeline = (*bufferedPipeline)(nil)

// newBufferedPipeline creates a pipeline returning records in order. The
// pipeline holds a reference to every record until it is read or closed.
// records is copied, so the caller's slice is never modified.
func newBufferedPipeline(records ...arrow.Record) *bufferedPipeline {
	for _, rec := range records {
		rec.Retain()
	}
	return &bufferedPipeline{records: append([]arrow.Record(nil), records...)}
}

// Read implements Pipeline. Ownership of the returned record's reference
// moves to the caller.
func (p *bufferedPipeline) Read(_ context.Context) (arrow.Record, error) {
	if p.current >= len(p.records) {
		return nil, EOF
	}
	rec := p.records[p.current]
	p.records[p.current] = nil
	p.current++
	return rec, nil
}

// Close implements Pipeline.
func (p *bufferedPipeline) Close() {
	for i := p.current; i < len(p.records); i++ {
		if p.records[i] != nil {
			p.records[i].Release()
		}
	}
	p.records = nil
	p.current = 0
}

// prefetchWrapper wraps a [Pipeline] with pre-fetching capability,
// reading data in a separate goroutine to enable concurrent processing.
type prefetchWrapper struct {
	Pipeline // the pipeline that is wrapped

	initialized bool                    // whether the pre-fetching goroutine is running
	ch          chan state              // the results channel for pre-fetched items
	cancel      context.CancelCauseFunc // cancellation function for the context
	err         error                   // terminal error received from the goroutine
}

var _ Pipeline = (*prefetchWrapper)(nil)

// newPrefetchingPipeline creates a pipeline that reads the next record of p
// in a separate goroutine while the consumer processes the current one.
// Prefetching starts on the first call to Read, or earlier when init is
// called directly.
func newPrefetchingPipeline(p Pipeline) *prefetchWrapper {
	return &prefetchWrapper{
		Pipeline: p,
		ch:       make(chan state),
	}
}

// Read implements [Pipeline].
func (p *prefetchWrapper) Read(ctx context.Context) (arrow.Record, error) {
	p.init(ctx)
	return p.read(ctx)
}

func (p *prefetchWrapper) init(ctx context.Context) {
	if p.initialized {
		return
	}

	p.initialized = true

	ctx, p.cancel = context.WithCancelCause(ctx)
	go p.prefetch(ctx) // nolint:errcheck
}

func (p *prefetchWrapper) prefetch(ctx context.Context) error {
	defer close(p.ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			var s state
			s.batch, s.err = p.Pipeline.Read(ctx)
			if s.err != nil {
				select {
				case <-ctx.Done():
				case p.ch <- s:
				}
				return s.err
			}

			// Sending blocks until the batch is read by the consumer. If the
			// context is cancelled while waiting to send, the batch is dropped.
			select {
			case <-ctx.Done():
				s.batch.Release()
				return ctx.Err()
			case p.ch <- s:
			}
		}
	}
}

func (p *prefetchWrapper) read(ctx context.Context) (arrow.Record, error) {
	if p.err != nil {
		return nil, p.err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case state, ok := <-p.ch:
		// The channel is only closed without a final state when the
		// pipeline was cancelled.
		if !ok {
			return nil, context.Canceled
		}
		p.err = state.err
		return state.batch, state.err
	}
}

// Close implements [Pipeline].
func (p *prefetchWrapper) Close() {
	if p.cancel != nil {
		p.cancel(errors.New("pipeline is closed"))

		// Wait for the prefetch goroutine to finish before closing the
		// wrapped pipeline, so that it is never read and closed at the same
		// time.
		for s := range p.ch {
			if s.batch != nil {
				s.batch.Release()
			}
		}
	}
	p.Pipeline.Close()
}

type tracedPipeline struct {
	name  string
	inner Pipeline
}

var _ Pipeline = (*tracedPipeline)(nil)

// tracePipeline wraps a [Pipeline] to record each call to Read with a span.
func tracePipeline(name string, pipeline Pipeline) *tracedPipeline {
	return &tracedPipeline{
		name:  name,
		inner: pipeline,
	}
}

func (p *tracedPipeline) Read(ctx context.Context) (arrow.Record, error) {
	ctx, span := tracer.Start(ctx, p.name+".Read")
	defer span.End()

	res, err := p.inner.Read(ctx)
	if err != nil && !errors.Is(err, EOF) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return res, err
}

func (p *tracedPipeline) Close() { p.inner.Close() }

// ReadAll reads all remaining records of p. On error, records read so far
// are released.
func ReadAll(ctx context.Context, p Pipeline) ([]arrow.Record, error) {
	var records []arrow.Record
	for {
		rec, err := p.Read(ctx)
		if errors.Is(err, EOF) {
			return records, nil
		} else if err != nil {
			for _, r := range records {
				r.Release()
			}
			return nil, err
		}
		records = append(records, rec)
	}
}
