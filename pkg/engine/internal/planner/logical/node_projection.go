package logical

import "github.com/apache/arrow-go/v18/arrow"

// Projection evaluates a list of expressions over each row of its input.
type Projection struct {
	Exprs     []Expr
	Input     Plan
	OutSchema *arrow.Schema
}

func (p *Projection) Schema() *arrow.Schema { return p.OutSchema }
func (p *Projection) String() string        { return toTreeNode(p).String() }
func (p *Projection) isPlan()               {}
