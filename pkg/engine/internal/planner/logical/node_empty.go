package logical

import "github.com/apache/arrow-go/v18/arrow"

// EmptyRelation produces no rows, or exactly one row if ProduceOneRow is set.
// It is used for queries without a FROM clause.
type EmptyRelation struct {
	ProduceOneRow bool
	OutSchema     *arrow.Schema
}

func (e *EmptyRelation) Schema() *arrow.Schema { return e.OutSchema }
func (e *EmptyRelation) String() string        { return toTreeNode(e).String() }
func (e *EmptyRelation) isPlan()               {}
