package logical

import "github.com/apache/arrow-go/v18/arrow"

// UserDefinedNode is an operator defined outside of this package.
type UserDefinedNode interface {
	// Name is the display name of the operator.
	Name() string
	Schema() *arrow.Schema
	// Inputs returns the inputs of the operator in a fixed order.
	Inputs() []Plan
	// Expressions returns the expressions of the operator.
	Expressions() []Expr
	// FromTemplate creates a new node of the same kind with the given
	// expressions and inputs.
	FromTemplate(exprs []Expr, inputs []Plan) (UserDefinedNode, error)
}

// Extension wraps a [UserDefinedNode] into a [Plan].
type Extension struct {
	Node UserDefinedNode
}

func (e *Extension) Schema() *arrow.Schema { return e.Node.Schema() }
func (e *Extension) String() string        { return toTreeNode(e).String() }
func (e *Extension) isPlan()               {}
