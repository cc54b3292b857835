package logical

import "github.com/apache/arrow-go/v18/arrow"

// Union concatenates the rows of all Inputs (UNION ALL). All inputs have the
// same schema shape as OutSchema.
type Union struct {
	Inputs    []Plan
	OutSchema *arrow.Schema
}

func (u *Union) Schema() *arrow.Schema { return u.OutSchema }
func (u *Union) String() string        { return toTreeNode(u).String() }
func (u *Union) isPlan()               {}
