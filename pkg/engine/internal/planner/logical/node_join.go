package logical

import "github.com/apache/arrow-go/v18/arrow"

// Join is an equi-join of Left and Right. Left is the build side of a hash
// join and Right is the probe side.
//
// OutSchema does not depend on which input is the build side: exchanging the
// inputs (together with swapping On and Type) keeps OutSchema.
type Join struct {
	Left      Plan
	Right     Plan
	On        []JoinPair
	Type      JoinType
	OutSchema *arrow.Schema
}

func (j *Join) Schema() *arrow.Schema { return j.OutSchema }
func (j *Join) String() string        { return toTreeNode(j).String() }
func (j *Join) isPlan()               {}
