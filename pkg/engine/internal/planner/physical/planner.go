// Package physical lowers logical plans into trees of executable operators.
package physical

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
	"github.com/quarrydb/quarry/pkg/engine/internal/executor"
	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
)

// Scanner is implemented by table providers that can be executed.
type Scanner interface {
	// Scan returns an operator reading the columns at projection, in
	// records of at most batchSize rows. A nil projection reads all
	// columns.
	Scan(projection []int, batchSize int) (executor.ExecutionPlan, error)
}

// Options configures a [Planner].
type Options struct {
	// BatchSize is the maximum number of rows per record read from tables.
	BatchSize int
	// CoalescePrefetch is the number of partitions prefetched by coalescing
	// operators.
	CoalescePrefetch int
}

// Planner creates an executable plan from a logical plan.
type Planner struct {
	opts Options
}

// NewPlanner creates a new Planner.
func NewPlanner(opts Options) *Planner {
	return &Planner{opts: opts}
}

// Build converts a logical plan into a tree of executable operators.
//
// Only the node kinds that do not require expression evaluation or a join
// algorithm can be lowered. Other kinds fail with
// [errors.ErrNotImplemented].
func (p *Planner) Build(lp logical.Plan) (executor.ExecutionPlan, error) {
	switch lp := lp.(type) {
	case *logical.TableScan:
		return p.processTableScan(lp)
	case *logical.EmptyRelation:
		return executor.NewEmptyExec(lp.OutSchema, lp.ProduceOneRow), nil
	case *logical.Projection:
		return p.processProjection(lp)
	case *logical.Limit:
		return p.processLimit(lp)
	case *logical.Union:
		return p.processUnion(lp)
	case *logical.Explain:
		return p.processExplain(lp)
	}
	return nil, fmt.Errorf("%w: physical planning of %s", errors.ErrNotImplemented, logical.Kind(lp))
}

func (p *Planner) processTableScan(lp *logical.TableScan) (executor.ExecutionPlan, error) {
	scanner, ok := lp.Source.(Scanner)
	if !ok {
		return nil, fmt.Errorf("%w: table %s cannot be scanned", errors.ErrNotImplemented, lp.TableName)
	}
	plan, err := scanner.Scan(lp.Projection, p.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("scanning table %s: %w", lp.TableName, err)
	}
	return plan, nil
}

// processProjection lowers a projection of plain column references.
func (p *Planner) processProjection(lp *logical.Projection) (executor.ExecutionPlan, error) {
	input, err := p.Build(lp.Input)
	if err != nil {
		return nil, err
	}

	inputSchema := lp.Input.Schema()
	columns := make([]int, 0, len(lp.Exprs))
	for _, expr := range lp.Exprs {
		col, ok := expr.(*logical.ColumnExpr)
		if !ok {
			return nil, fmt.Errorf("%w: projection of expression %s", errors.ErrNotImplemented, expr)
		}
		indices := inputSchema.FieldIndices(col.Name)
		if len(indices) == 0 {
			return nil, fmt.Errorf("%w: column %s not found in projection input", errors.ErrKey, col.Name)
		}
		columns = append(columns, indices[0])
	}
	return executor.NewProjectionExec(input, columns)
}

// processLimit lowers a limit into a limit over the coalesced partitions of
// its input, since LimitExec limits each partition on its own.
func (p *Planner) processLimit(lp *logical.Limit) (executor.ExecutionPlan, error) {
	input, err := p.Build(lp.Input)
	if err != nil {
		return nil, err
	}
	return executor.NewLimitExec(executor.NewCoalescePartitionsExec(input, p.opts.CoalescePrefetch), 0, lp.N), nil
}

// processUnion lowers a union. Each input is coalesced into a single
// partition first, since a union only reads the first partition of each of
// its inputs.
func (p *Planner) processUnion(lp *logical.Union) (executor.ExecutionPlan, error) {
	inputs := make([]executor.ExecutionPlan, 0, len(lp.Inputs))
	for _, input := range lp.Inputs {
		plan, err := p.Build(input)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, executor.NewCoalescePartitionsExec(plan, p.opts.CoalescePrefetch))
	}
	return executor.NewUnionExec(inputs)
}

// processExplain lowers an explain into a scan of its stringified plans.
func (p *Planner) processExplain(lp *logical.Explain) (executor.ExecutionPlan, error) {
	// MemoryExec does not own rec, so its reference is never released. rec is
	// allocated from the Go heap and is reclaimed by the garbage collector
	// once the operator is unreachable.
	rec := stringifiedPlansRecord(lp.StringifiedPlans)
	return executor.NewMemoryExec(logical.ExplainSchema, [][]arrow.Record{{rec}}, nil)
}

func stringifiedPlansRecord(plans []logical.StringifiedPlan) arrow.Record {
	types := array.NewStringBuilder(memory.DefaultAllocator)
	defer types.Release()
	texts := array.NewStringBuilder(memory.DefaultAllocator)
	defer texts.Release()

	for _, plan := range plans {
		types.Append(plan.Type)
		texts.Append(plan.Plan)
	}

	typesArr := types.NewArray()
	defer typesArr.Release()
	textsArr := texts.NewArray()
	defer textsArr.Release()

	return array.NewRecord(logical.ExplainSchema, []arrow.Array{typesArr, textsArr}, int64(len(plans)))
}
