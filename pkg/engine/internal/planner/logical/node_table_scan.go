package logical

import "github.com/apache/arrow-go/v18/arrow"

// TableScan reads the rows of a table.
type TableScan struct {
	TableName string
	Source    TableProvider
	// Projection holds the indices of the source columns to read. A nil
	// Projection reads all columns.
	Projection []int
	OutSchema  *arrow.Schema
}

func (s *TableScan) Schema() *arrow.Schema { return s.OutSchema }
func (s *TableScan) String() string        { return toTreeNode(s).String() }
func (s *TableScan) isPlan()               {}
