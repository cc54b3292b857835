package logical

import "github.com/apache/arrow-go/v18/arrow"

// Filter keeps the rows of its input for which Predicate evaluates to true.
type Filter struct {
	Predicate Expr
	Input     Plan
}

// Schema returns the schema of the input, since filtering only affects the
// number of rows.
func (f *Filter) Schema() *arrow.Schema { return f.Input.Schema() }
func (f *Filter) String() string        { return toTreeNode(f).String() }
func (f *Filter) isPlan()               {}
