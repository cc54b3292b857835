package logical

import "github.com/apache/arrow-go/v18/arrow"

// Limit produces at most N rows of its input.
type Limit struct {
	N     uint64
	Input Plan
}

func (l *Limit) Schema() *arrow.Schema { return l.Input.Schema() }
func (l *Limit) String() string        { return toTreeNode(l).String() }
func (l *Limit) isPlan()               {}
