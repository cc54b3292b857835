package optimizer

import "github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"

// numRows returns the exact number of rows produced by p, if it can be
// derived from table statistics. ok is false when the count is unknown.
//
// No estimation takes place: nodes that may change the number of rows in a
// data dependent way (filters, aggregations, joins) always report an unknown
// count.
func numRows(p logical.Plan) (rows uint64, ok bool) {
	switch p := p.(type) {
	case *logical.Projection:
		return numRows(p.Input)
	case *logical.Sort:
		return numRows(p.Input)
	case *logical.TableScan:
		stats := p.Source.Statistics()
		if stats.NumRows == nil {
			return 0, false
		}
		return *stats.NumRows, true
	case *logical.EmptyRelation:
		if p.ProduceOneRow {
			return 1, true
		}
		return 0, true
	case *logical.Limit:
		rows, ok := numRows(p.Input)
		if !ok {
			return 0, false
		}
		return min(p.N, rows), true
	default:
		return 0, false
	}
}
