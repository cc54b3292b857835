// Package executor implements the physical execution of queries: a tree of
// [ExecutionPlan] operators, each producing one [Pipeline] of Arrow record
// batches per output partition.
package executor

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"go.opentelemetry.io/otel"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

var tracer = otel.Tracer("pkg/engine/internal/executor")

// ExecutionPlan is an operator of a physical plan.
//
// Operators are immutable once constructed and may be shared by several
// parents and executed concurrently for different partitions.
type ExecutionPlan interface {
	// Schema returns the schema of the records produced by the operator. It
	// never changes during the lifetime of the operator.
	Schema() *arrow.Schema

	// Children returns the direct inputs of the operator in a fixed order.
	Children() []ExecutionPlan

	// OutputPartitioning describes how the output of the operator is split
	// into partitions.
	OutputPartitioning() Partitioning

	// WithNewChildren returns a new operator of the same kind and
	// configuration using children as inputs. It fails with
	// [errors.ErrStructure] if children do not fit the operator.
	WithNewChildren(children []ExecutionPlan) (ExecutionPlan, error)

	// Execute returns the stream of records of the given partition. It fails
	// with [errors.ErrIndex] if partition is out of range of
	// OutputPartitioning.
	Execute(ctx context.Context, partition int) (Pipeline, error)
}

// PartitioningKind is the kind of a [Partitioning].
type PartitioningKind int

const (
	// PartitioningUnknown asserts the number of partitions only; rows are
	// not distributed by any known property.
	PartitioningUnknown PartitioningKind = iota
)

// Partitioning describes the partitions of the output of an operator.
type Partitioning struct {
	Kind  PartitioningKind
	Count int
}

// UnknownPartitioning returns a Partitioning of exactly n partitions without
// any further guarantee about ordering or distribution of rows.
func UnknownPartitioning(n int) Partitioning {
	return Partitioning{Kind: PartitioningUnknown, Count: n}
}

// PartitionCount returns the number of partitions.
func (p Partitioning) PartitionCount() int { return p.Count }

func (p Partitioning) String() string {
	switch p.Kind {
	case PartitioningUnknown:
		return fmt.Sprintf("UnknownPartitioning(%d)", p.Count)
	default:
		return fmt.Sprintf("Partitioning(%d, %d)", int(p.Kind), p.Count)
	}
}

// checkPartition returns an error if partition is not a valid partition of
// plan.
func checkPartition(name string, plan ExecutionPlan, partition int) error {
	n := plan.OutputPartitioning().PartitionCount()
	if partition < 0 || partition >= n {
		return fmt.Errorf("%w: %s has %d partitions, partition %d requested", errors.ErrIndex, name, n, partition)
	}
	return nil
}

// checkChildren returns an error if the number of children is not want.
func checkChildren(name string, want int, children []ExecutionPlan) error {
	if len(children) != want {
		return fmt.Errorf("%w: %s expects %d children, got %d", errors.ErrStructure, name, want, len(children))
	}
	return nil
}
