package logical

import "github.com/apache/arrow-go/v18/arrow"

// Sort orders the rows of its input by Exprs, which are [SortExpr]s.
type Sort struct {
	Exprs []Expr
	Input Plan
}

// Schema returns the schema of the input. Sorting does not change the
// structure of the rows.
func (s *Sort) Schema() *arrow.Schema { return s.Input.Schema() }
func (s *Sort) String() string        { return toTreeNode(s).String() }
func (s *Sort) isPlan()               {}
