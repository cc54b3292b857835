package executor

import "fmt"

// RewriteFunc rewrites a single operator. It returns the operator itself
// when there is nothing to change.
type RewriteFunc func(ExecutionPlan) (ExecutionPlan, error)

// TransformUp rewrites plan bottom-up: the children of every operator are
// rewritten before the operator itself is passed to fn. Operators whose
// children did not change are passed to fn as-is.
//
// The first error returned by fn or by WithNewChildren aborts the rewrite.
func TransformUp(plan ExecutionPlan, fn RewriteFunc) (ExecutionPlan, error) {
	children := plan.Children()
	if len(children) > 0 {
		changed := false
		newChildren := make([]ExecutionPlan, len(children))
		for i, child := range children {
			newChild, err := TransformUp(child, fn)
			if err != nil {
				return nil, err
			}
			if newChild != child {
				changed = true
			}
			newChildren[i] = newChild
		}

		if changed {
			rewritten, err := plan.WithNewChildren(newChildren)
			if err != nil {
				return nil, fmt.Errorf("rewriting %s: %w", OperatorName(plan), err)
			}
			plan = rewritten
		}
	}
	return fn(plan)
}
