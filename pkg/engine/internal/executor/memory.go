package executor

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

// MemoryExec scans record batches held in memory. Each element of
// partitions is one output partition, whose batches are produced in order.
type MemoryExec struct {
	schema     *arrow.Schema // projected schema
	partitions [][]arrow.Record
	projection []int
	batchSize  int64
}

var _ ExecutionPlan = (*MemoryExec)(nil)

// NewMemoryExec creates a MemoryExec. schema is the schema of the records in
// partitions. A non-nil projection selects the columns to produce by index.
//
// MemoryExec does not take ownership of the records; they must stay valid for
// as long as the operator is executed.
func NewMemoryExec(schema *arrow.Schema, partitions [][]arrow.Record, projection []int) (*MemoryExec, error) {
	projected, err := projectSchema(schema, projection)
	if err != nil {
		return nil, err
	}
	for i, partition := range partitions {
		for j, rec := range partition {
			if !rec.Schema().Equal(schema) {
				return nil, fmt.Errorf("%w: record %d of partition %d has schema %s, want %s", errors.ErrType, j, i, rec.Schema(), schema)
			}
		}
	}
	return &MemoryExec{
		schema:     projected,
		partitions: partitions,
		projection: projection,
	}, nil
}

// WithBatchSize returns a copy of m that splits records larger than size
// rows into slices of at most size rows. A size of zero or less keeps
// records as they are.
func (m *MemoryExec) WithBatchSize(size int) *MemoryExec {
	c := *m
	c.batchSize = int64(max(size, 0))
	return &c
}

// Schema implements ExecutionPlan.
func (m *MemoryExec) Schema() *arrow.Schema { return m.schema }

// Children implements ExecutionPlan. MemoryExec is a leaf.
func (m *MemoryExec) Children() []ExecutionPlan { return nil }

// OutputPartitioning implements ExecutionPlan.
func (m *MemoryExec) OutputPartitioning() Partitioning {
	return UnknownPartitioning(len(m.partitions))
}

// WithNewChildren implements ExecutionPlan.
func (m *MemoryExec) WithNewChildren(children []ExecutionPlan) (ExecutionPlan, error) {
	if err := checkChildren("MemoryExec", 0, children); err != nil {
		return nil, err
	}
	return m, nil
}

// Execute implements ExecutionPlan.
func (m *MemoryExec) Execute(_ context.Context, partition int) (Pipeline, error) {
	if err := checkPartition("MemoryExec", m, partition); err != nil {
		return nil, err
	}
	input := m.buffer(m.partitions[partition])
	if m.projection == nil {
		return tracePipeline("MemoryExec", input), nil
	}

	return tracePipeline("MemoryExec", newGenericPipeline(func(ctx context.Context, inputs []Pipeline) (arrow.Record, error) {
		rec, err := inputs[0].Read(ctx)
		if err != nil {
			return nil, err
		}
		defer rec.Release()
		return projectRecord(m.schema, rec, m.projection), nil
	}, input)), nil
}

// buffer returns a pipeline over records, split according to the batch size.
func (m *MemoryExec) buffer(records []arrow.Record) *bufferedPipeline {
	if m.batchSize <= 0 {
		return newBufferedPipeline(records...)
	}

	batches := make([]arrow.Record, 0, len(records))
	for _, rec := range records {
		if rec.NumRows() <= m.batchSize {
			rec.Retain()
			batches = append(batches, rec)
			continue
		}
		for start := int64(0); start < rec.NumRows(); start += m.batchSize {
			batches = append(batches, rec.NewSlice(start, min(start+m.batchSize, rec.NumRows())))
		}
	}

	pipeline := newBufferedPipeline(batches...)
	for _, batch := range batches {
		batch.Release()
	}
	return pipeline
}

// projectSchema returns the schema of the fields of schema at indices. A nil
// indices slice keeps all fields.
func projectSchema(schema *arrow.Schema, indices []int) (*arrow.Schema, error) {
	if indices == nil {
		return schema, nil
	}
	fields := make([]arrow.Field, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= schema.NumFields() {
			return nil, fmt.Errorf("%w: column index %d out of range for schema with %d fields", errors.ErrIndex, idx, schema.NumFields())
		}
		fields = append(fields, schema.Field(idx))
	}
	return arrow.NewSchema(fields, nil), nil
}

// projectRecord returns a new record with the columns of rec at indices.
func projectRecord(schema *arrow.Schema, rec arrow.Record, indices []int) arrow.Record {
	cols := make([]arrow.Array, len(indices))
	for i, idx := range indices {
		cols[i] = rec.Column(idx)
	}
	return array.NewRecord(schema, cols, rec.NumRows())
}
