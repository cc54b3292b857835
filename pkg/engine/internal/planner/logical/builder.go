package logical

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/quarrydb/quarry/pkg/engine/internal/datatype"
	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

// Builder constructs a logical plan bottom-up. The first error encountered
// is kept and returned by [Builder.Build]; subsequent calls are no-ops.
type Builder struct {
	plan Plan
	err  error
}

// NewBuilder creates a Builder starting from an existing plan.
func NewBuilder(p Plan) *Builder {
	return &Builder{plan: p}
}

// Scan creates a Builder starting from a scan of source. A nil projection
// reads all columns.
func Scan(name string, source TableProvider, projection []int) *Builder {
	full := source.Schema()
	schema := full
	if projection != nil {
		fields := make([]arrow.Field, 0, len(projection))
		for _, idx := range projection {
			if idx < 0 || idx >= full.NumFields() {
				return &Builder{err: fmt.Errorf("%w: projection index %d out of range for table %s", errors.ErrIndex, idx, name)}
			}
			fields = append(fields, full.Field(idx))
		}
		schema = arrow.NewSchema(fields, nil)
	}
	return NewBuilder(&TableScan{
		TableName:  name,
		Source:     source,
		Projection: projection,
		OutSchema:  schema,
	})
}

// Empty creates a Builder starting from an [EmptyRelation].
func Empty(produceOneRow bool, schema *arrow.Schema) *Builder {
	if schema == nil {
		schema = emptySchema
	}
	return NewBuilder(&EmptyRelation{ProduceOneRow: produceOneRow, OutSchema: schema})
}

// Project adds a [Projection] of exprs.
func (b *Builder) Project(exprs ...Expr) *Builder {
	if b.err != nil {
		return b
	}
	fields := make([]arrow.Field, 0, len(exprs))
	for _, expr := range exprs {
		f, err := exprField(expr, b.plan.Schema())
		if err != nil {
			b.err = fmt.Errorf("projection: %w", err)
			return b
		}
		fields = append(fields, f)
	}
	b.plan = &Projection{Exprs: exprs, Input: b.plan, OutSchema: arrow.NewSchema(fields, nil)}
	return b
}

// Filter adds a [Filter] with the given predicate.
func (b *Builder) Filter(predicate Expr) *Builder {
	if b.err != nil {
		return b
	}
	b.plan = &Filter{Predicate: predicate, Input: b.plan}
	return b
}

// Aggregate adds an [Aggregate].
func (b *Builder) Aggregate(groupBy, aggregates []Expr) *Builder {
	if b.err != nil {
		return b
	}
	fields := make([]arrow.Field, 0, len(groupBy)+len(aggregates))
	for _, expr := range append(append([]Expr(nil), groupBy...), aggregates...) {
		f, err := exprField(expr, b.plan.Schema())
		if err != nil {
			b.err = fmt.Errorf("aggregate: %w", err)
			return b
		}
		fields = append(fields, f)
	}
	b.plan = &Aggregate{
		GroupBy:    groupBy,
		Aggregates: aggregates,
		Input:      b.plan,
		OutSchema:  arrow.NewSchema(fields, nil),
	}
	return b
}

// Sort adds a [Sort] by exprs.
func (b *Builder) Sort(exprs ...*SortExpr) *Builder {
	if b.err != nil {
		return b
	}
	sortExprs := make([]Expr, len(exprs))
	for i := range exprs {
		sortExprs[i] = exprs[i]
	}
	b.plan = &Sort{Exprs: sortExprs, Input: b.plan}
	return b
}

// Limit adds a [Limit] of n rows.
func (b *Builder) Limit(n uint64) *Builder {
	if b.err != nil {
		return b
	}
	b.plan = &Limit{N: n, Input: b.plan}
	return b
}

// Join adds a [Join] with the current plan as left input. Every pair in on
// must name a column of the left and of the right input respectively.
func (b *Builder) Join(right Plan, typ JoinType, on ...JoinPair) *Builder {
	if b.err != nil {
		return b
	}
	left := b.plan
	for _, pair := range on {
		if len(left.Schema().FieldIndices(pair.Left)) == 0 {
			b.err = fmt.Errorf("join: %w: column %q not found in left input", errors.ErrKey, pair.Left)
			return b
		}
		if len(right.Schema().FieldIndices(pair.Right)) == 0 {
			b.err = fmt.Errorf("join: %w: column %q not found in right input", errors.ErrKey, pair.Right)
			return b
		}
	}
	fields := make([]arrow.Field, 0, left.Schema().NumFields()+right.Schema().NumFields())
	fields = append(fields, left.Schema().Fields()...)
	fields = append(fields, right.Schema().Fields()...)

	b.plan = &Join{
		Left:      left,
		Right:     right,
		On:        on,
		Type:      typ,
		OutSchema: arrow.NewSchema(fields, nil),
	}
	return b
}

// Union adds a [Union] of the current plan and others. The schema of the
// union is the schema of the current plan.
func (b *Builder) Union(others ...Plan) *Builder {
	if b.err != nil {
		return b
	}
	inputs := append([]Plan{b.plan}, others...)
	for i, input := range others {
		if !datatype.SameShape(b.plan.Schema(), input.Schema()) {
			b.err = fmt.Errorf("union: %w: input %d has schema %s, want shape of %s", errors.ErrStructure, i+1, input.Schema(), b.plan.Schema())
			return b
		}
	}
	b.plan = &Union{Inputs: inputs, OutSchema: b.plan.Schema()}
	return b
}

// Explain wraps the current plan into an [Explain] node carrying its
// rendered tree.
func (b *Builder) Explain(verbose bool) *Builder {
	if b.err != nil {
		return b
	}
	b.plan = &Explain{
		Verbose: verbose,
		Plan:    b.plan,
		StringifiedPlans: []StringifiedPlan{
			{Type: "logical_plan", Plan: PrintAsTree(b.plan)},
		},
	}
	return b
}

// Build returns the constructed plan or the first error encountered.
func (b *Builder) Build() (Plan, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.plan, nil
}
