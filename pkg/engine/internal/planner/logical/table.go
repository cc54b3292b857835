package logical

import "github.com/apache/arrow-go/v18/arrow"

// TableProvider is a source of data that can be scanned by a [TableScan].
type TableProvider interface {
	// Schema returns the full schema of the table.
	Schema() *arrow.Schema
	// Statistics returns the statistics known about the table.
	Statistics() Statistics
}

// Statistics holds exact statistics of a table. Missing values are unknown;
// approximate values are never reported.
type Statistics struct {
	// NumRows is the exact number of rows, or nil if unknown.
	NumRows *uint64
}

// ExactRows returns Statistics with an exact row count of n.
func ExactRows(n uint64) Statistics {
	return Statistics{NumRows: &n}
}
