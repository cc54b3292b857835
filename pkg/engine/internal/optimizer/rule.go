// Package optimizer rewrites logical plans into equivalent logical plans
// that are cheaper to execute.
package optimizer

import (
	"fmt"

	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
)

// Rule is a rewrite of a logical plan. A rule must not change the output
// schema or the rows produced by the plan, and applying a rule to its own
// output must not change the plan any further.
type Rule interface {
	// Name returns the name of the rule as used in logs and metrics.
	Name() string
	// Optimize returns the rewritten plan. The input plan is not modified.
	Optimize(logical.Plan) (logical.Plan, error)
}

// optimizeInputs applies optimize to every input of p and rebuilds p from
// the results. The first error is returned, annotated with the node that
// failed.
func optimizeInputs(p logical.Plan, optimize func(logical.Plan) (logical.Plan, error)) (logical.Plan, error) {
	inputs := logical.Inputs(p)
	newInputs := make([]logical.Plan, len(inputs))
	for i, input := range inputs {
		optimized, err := optimize(input)
		if err != nil {
			return nil, fmt.Errorf("%s input %d: %w", logical.Kind(p), i, err)
		}
		newInputs[i] = optimized
	}
	return logical.FromPlan(p, logical.Expressions(p), newInputs)
}
