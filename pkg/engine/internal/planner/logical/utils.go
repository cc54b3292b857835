package logical

import (
	"fmt"

	"github.com/quarrydb/quarry/pkg/engine/internal/datatype"
	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

// Inputs returns the immediate inputs of p in a fixed order.
func Inputs(p Plan) []Plan {
	switch p := p.(type) {
	case *Projection:
		return []Plan{p.Input}
	case *Filter:
		return []Plan{p.Input}
	case *Aggregate:
		return []Plan{p.Input}
	case *Sort:
		return []Plan{p.Input}
	case *Limit:
		return []Plan{p.Input}
	case *Join:
		return []Plan{p.Left, p.Right}
	case *Explain:
		return []Plan{p.Plan}
	case *Extension:
		return p.Node.Inputs()
	case *Union:
		return append([]Plan(nil), p.Inputs...)
	default:
		// TableScan, EmptyRelation and CreateExternalTable are leaves.
		return nil
	}
}

// Expressions returns the expressions held by p itself, excluding those of
// its inputs. For an [Aggregate] the grouping expressions come first.
func Expressions(p Plan) []Expr {
	switch p := p.(type) {
	case *Projection:
		return append([]Expr(nil), p.Exprs...)
	case *Filter:
		return []Expr{p.Predicate}
	case *Aggregate:
		exprs := make([]Expr, 0, len(p.GroupBy)+len(p.Aggregates))
		exprs = append(exprs, p.GroupBy...)
		return append(exprs, p.Aggregates...)
	case *Sort:
		return append([]Expr(nil), p.Exprs...)
	case *Extension:
		return p.Node.Expressions()
	default:
		return nil
	}
}

// FromPlan returns a node of the same kind and configuration as p, built from
// exprs and inputs. It is the inverse of [Expressions] and [Inputs]:
// FromPlan(p, Expressions(p), Inputs(p)) is equivalent to p.
//
// FromPlan fails with [errors.ErrStructure] if the number of expressions or
// inputs does not fit the kind of p, or if an input has a different schema
// shape than the input it replaces.
func FromPlan(p Plan, exprs []Expr, inputs []Plan) (Plan, error) {
	switch p := p.(type) {
	case *Projection:
		if err := checkInputs("Projection", []Plan{p.Input}, inputs); err != nil {
			return nil, err
		}
		if err := checkExprs("Projection", len(p.Exprs), exprs); err != nil {
			return nil, err
		}
		return &Projection{Exprs: exprs, Input: inputs[0], OutSchema: p.OutSchema}, nil

	case *Filter:
		if err := checkInputs("Filter", []Plan{p.Input}, inputs); err != nil {
			return nil, err
		}
		if err := checkExprs("Filter", 1, exprs); err != nil {
			return nil, err
		}
		return &Filter{Predicate: exprs[0], Input: inputs[0]}, nil

	case *Aggregate:
		if err := checkInputs("Aggregate", []Plan{p.Input}, inputs); err != nil {
			return nil, err
		}
		if err := checkExprs("Aggregate", len(p.GroupBy)+len(p.Aggregates), exprs); err != nil {
			return nil, err
		}
		n := len(p.GroupBy)
		return &Aggregate{
			GroupBy:    exprs[:n:n],
			Aggregates: exprs[n:],
			Input:      inputs[0],
			OutSchema:  p.OutSchema,
		}, nil

	case *Sort:
		if err := checkInputs("Sort", []Plan{p.Input}, inputs); err != nil {
			return nil, err
		}
		if err := checkExprs("Sort", len(p.Exprs), exprs); err != nil {
			return nil, err
		}
		return &Sort{Exprs: exprs, Input: inputs[0]}, nil

	case *Limit:
		if err := checkInputs("Limit", []Plan{p.Input}, inputs); err != nil {
			return nil, err
		}
		if err := checkExprs("Limit", 0, exprs); err != nil {
			return nil, err
		}
		return &Limit{N: p.N, Input: inputs[0]}, nil

	case *Join:
		if err := checkInputs("Join", []Plan{p.Left, p.Right}, inputs); err != nil {
			return nil, err
		}
		if err := checkExprs("Join", 0, exprs); err != nil {
			return nil, err
		}
		return &Join{
			Left:      inputs[0],
			Right:     inputs[1],
			On:        append([]JoinPair(nil), p.On...),
			Type:      p.Type,
			OutSchema: p.OutSchema,
		}, nil

	case *Explain:
		if err := checkInputs("Explain", []Plan{p.Plan}, inputs); err != nil {
			return nil, err
		}
		if err := checkExprs("Explain", 0, exprs); err != nil {
			return nil, err
		}
		return &Explain{
			Verbose:          p.Verbose,
			Plan:             inputs[0],
			StringifiedPlans: append([]StringifiedPlan(nil), p.StringifiedPlans...),
		}, nil

	case *Union:
		if len(inputs) != len(p.Inputs) {
			return nil, fmt.Errorf("%w: Union expects %d inputs, got %d", errors.ErrStructure, len(p.Inputs), len(inputs))
		}
		if err := checkExprs("Union", 0, exprs); err != nil {
			return nil, err
		}
		for i, input := range inputs {
			if !datatype.SameShape(p.OutSchema, input.Schema()) {
				return nil, fmt.Errorf("%w: Union input %d has schema %s, want shape of %s", errors.ErrStructure, i, input.Schema(), p.OutSchema)
			}
		}
		return &Union{Inputs: append([]Plan(nil), inputs...), OutSchema: p.OutSchema}, nil

	case *Extension:
		node, err := p.Node.FromTemplate(exprs, inputs)
		if err != nil {
			return nil, fmt.Errorf("%w: extension %s: %w", errors.ErrStructure, p.Node.Name(), err)
		}
		return &Extension{Node: node}, nil

	case *TableScan, *EmptyRelation, *CreateExternalTable:
		if len(inputs) != 0 {
			return nil, fmt.Errorf("%w: %s is a leaf, got %d inputs", errors.ErrStructure, Kind(p), len(inputs))
		}
		if err := checkExprs(Kind(p), 0, exprs); err != nil {
			return nil, err
		}
		// Leaves hold no inputs or expressions, so the immutable node itself
		// can be reused.
		return p, nil
	}

	return nil, fmt.Errorf("%w: unsupported plan node %T", errors.ErrNotImplemented, p)
}

func checkInputs(kind string, old, inputs []Plan) error {
	if len(inputs) != len(old) {
		return fmt.Errorf("%w: %s expects %d inputs, got %d", errors.ErrStructure, kind, len(old), len(inputs))
	}
	for i := range inputs {
		if inputs[i] == nil {
			return fmt.Errorf("%w: %s input %d is nil", errors.ErrStructure, kind, i)
		}
		if !datatype.SameShape(old[i].Schema(), inputs[i].Schema()) {
			return fmt.Errorf("%w: %s input %d has schema %s, want shape of %s", errors.ErrStructure, kind, i, inputs[i].Schema(), old[i].Schema())
		}
	}
	return nil
}

func checkExprs(kind string, want int, exprs []Expr) error {
	if len(exprs) != want {
		return fmt.Errorf("%w: %s expects %d expressions, got %d", errors.ErrStructure, kind, want, len(exprs))
	}
	return nil
}

// Kind returns the display name of the kind of p, for example "Join".
func Kind(p Plan) string {
	return toTreeNode(p).Name
}
