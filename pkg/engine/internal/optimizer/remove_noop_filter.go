package optimizer

import "github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"

// removeNoopFilter is a rule that removes Filter nodes whose predicate is the
// literal true.
type removeNoopFilter struct{}

var _ Rule = (*removeNoopFilter)(nil)

// NewRemoveNoopFilter creates the remove_noop_filter rule.
func NewRemoveNoopFilter() Rule { return &removeNoopFilter{} }

// Name implements [Rule].
func (r *removeNoopFilter) Name() string { return "remove_noop_filter" }

// Optimize implements [Rule].
func (r *removeNoopFilter) Optimize(p logical.Plan) (logical.Plan, error) {
	if filter, ok := p.(*logical.Filter); ok && isTrue(filter.Predicate) {
		return r.Optimize(filter.Input)
	}
	return optimizeInputs(p, r.Optimize)
}

func isTrue(expr logical.Expr) bool {
	lit, ok := expr.(*logical.LiteralExpr)
	if !ok {
		return false
	}
	v, ok := lit.Value.(bool)
	return ok && v
}
