package physical

import (
	"github.com/quarrydb/quarry/pkg/engine/internal/executor"
)

// A rule is a transformation that can be applied on an operator.
type rule interface {
	// apply returns the transformed operator, or the operator itself if the
	// rule does not apply.
	apply(executor.ExecutionPlan) (executor.ExecutionPlan, error)
}

// removeNoopCoalesce is a rule that removes coalescing operators whose input
// has a single partition.
type removeNoopCoalesce struct{}

// apply implements rule.
func (r *removeNoopCoalesce) apply(plan executor.ExecutionPlan) (executor.ExecutionPlan, error) {
	switch plan := plan.(type) {
	case *executor.CoalescePartitionsExec:
		input := plan.Children()[0]
		if input.OutputPartitioning().PartitionCount() == 1 {
			return input, nil
		}
	}
	return plan, nil
}

var _ rule = (*removeNoopCoalesce)(nil)

// Optimize applies the physical rewrite rules to plan, bottom-up.
func (p *Planner) Optimize(plan executor.ExecutionPlan) (executor.ExecutionPlan, error) {
	rules := []rule{
		&removeNoopCoalesce{},
	}
	for _, r := range rules {
		var err error
		if plan, err = executor.TransformUp(plan, r.apply); err != nil {
			return nil, err
		}
	}
	return plan, nil
}
