package logical

import "github.com/apache/arrow-go/v18/arrow"

// Aggregate groups the rows of its input by GroupBy and computes Aggregates
// for every group. The output has one column per grouping expression
// followed by one column per aggregate.
type Aggregate struct {
	GroupBy    []Expr
	Aggregates []Expr
	Input      Plan
	OutSchema  *arrow.Schema
}

func (a *Aggregate) Schema() *arrow.Schema { return a.OutSchema }
func (a *Aggregate) String() string        { return toTreeNode(a).String() }
func (a *Aggregate) isPlan()               {}
