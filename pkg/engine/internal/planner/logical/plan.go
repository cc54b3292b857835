// Package logical defines the logical plan of a query: an immutable tree of
// relational operators describing what to compute.
//
// Nodes are never mutated after construction. Rewrites build new nodes that
// may reuse (share) unchanged subtrees of the original plan.
package logical

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// Plan is a node of the logical plan tree. The set of implementations is
// closed; user defined operators are wrapped in [Extension].
type Plan interface {
	// Schema returns the output schema of the node.
	Schema() *arrow.Schema
	// String returns a single line description of the node without its
	// inputs.
	String() string

	isPlan()
}

var (
	_ Plan = (*Projection)(nil)
	_ Plan = (*Filter)(nil)
	_ Plan = (*Aggregate)(nil)
	_ Plan = (*Sort)(nil)
	_ Plan = (*Limit)(nil)
	_ Plan = (*Join)(nil)
	_ Plan = (*TableScan)(nil)
	_ Plan = (*EmptyRelation)(nil)
	_ Plan = (*CreateExternalTable)(nil)
	_ Plan = (*Explain)(nil)
	_ Plan = (*Extension)(nil)
	_ Plan = (*Union)(nil)
)

// JoinType is the kind of a join.
type JoinType int

const (
	JoinTypeInner JoinType = iota
	JoinTypeLeft
	JoinTypeRight
)

// String returns the string representation of the JoinType.
func (t JoinType) String() string {
	switch t {
	case JoinTypeInner:
		return "Inner"
	case JoinTypeLeft:
		return "Left"
	case JoinTypeRight:
		return "Right"
	default:
		return fmt.Sprintf("JoinType(%d)", int(t))
	}
}

// Swap returns the join type that keeps the join's result unchanged when its
// left and right inputs are exchanged.
func (t JoinType) Swap() JoinType {
	switch t {
	case JoinTypeLeft:
		return JoinTypeRight
	case JoinTypeRight:
		return JoinTypeLeft
	default:
		return t
	}
}

// JoinPair is an equi-join condition between a column of the left input and a
// column of the right input.
type JoinPair struct {
	Left  string
	Right string
}

// Swap returns the pair with the column sides exchanged.
func (p JoinPair) Swap() JoinPair {
	return JoinPair{Left: p.Right, Right: p.Left}
}

func (p JoinPair) String() string {
	return p.Left + " = " + p.Right
}

// StringifiedPlan is a rendered plan carried by an [Explain] node.
type StringifiedPlan struct {
	// Type describes the stage the plan was captured at, for example
	// "logical_plan" or "optimized_logical_plan".
	Type string
	Plan string
}
