// Package catalog provides table providers backed by data held in memory.
package catalog

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
	"github.com/quarrydb/quarry/pkg/engine/internal/executor"
	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
)

// MemTable is a table whose partitions of records are held in memory. Its
// statistics are exact.
type MemTable struct {
	schema     *arrow.Schema
	partitions [][]arrow.Record
	numRows    uint64
}

var _ logical.TableProvider = (*MemTable)(nil)

// NewMemTable creates a MemTable. Every record of partitions must have
// exactly schema. The MemTable retains the records until Release is called.
func NewMemTable(schema *arrow.Schema, partitions [][]arrow.Record) (*MemTable, error) {
	var numRows uint64
	for i, partition := range partitions {
		for j, rec := range partition {
			if !rec.Schema().Equal(schema) {
				return nil, fmt.Errorf("%w: record %d of partition %d has schema %s, want %s", errors.ErrType, j, i, rec.Schema(), schema)
			}
			numRows += uint64(rec.NumRows())
		}
	}

	for _, partition := range partitions {
		for _, rec := range partition {
			rec.Retain()
		}
	}
	return &MemTable{
		schema:     schema,
		partitions: partitions,
		numRows:    numRows,
	}, nil
}

// Schema implements logical.TableProvider.
func (t *MemTable) Schema() *arrow.Schema { return t.schema }

// Statistics implements logical.TableProvider.
func (t *MemTable) Statistics() logical.Statistics { return logical.ExactRows(t.numRows) }

// NumPartitions returns the number of partitions of the table.
func (t *MemTable) NumPartitions() int { return len(t.partitions) }

// Scan returns an operator reading the columns at projection of every
// partition. Records larger than batchSize rows are split into slices of at
// most batchSize rows; a batchSize of zero or less keeps records as they
// are.
func (t *MemTable) Scan(projection []int, batchSize int) (executor.ExecutionPlan, error) {
	exec, err := executor.NewMemoryExec(t.schema, t.partitions, projection)
	if err != nil {
		return nil, err
	}
	return exec.WithBatchSize(batchSize), nil
}

// Release releases the records held by the table.
func (t *MemTable) Release() {
	for _, partition := range t.partitions {
		for _, rec := range partition {
			rec.Release()
		}
	}
	t.partitions = nil
}
