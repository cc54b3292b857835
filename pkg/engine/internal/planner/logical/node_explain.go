package logical

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/quarrydb/quarry/pkg/engine/internal/datatype"
)

// ExplainSchema is the output schema of every [Explain] node: one row per
// stringified plan.
var ExplainSchema = arrow.NewSchema([]arrow.Field{
	{Name: "plan_type", Type: datatype.Arrow.String},
	{Name: "plan", Type: datatype.Arrow.String},
}, nil)

// Explain describes Plan instead of executing it.
type Explain struct {
	Verbose          bool
	Plan             Plan
	StringifiedPlans []StringifiedPlan
}

func (e *Explain) Schema() *arrow.Schema { return ExplainSchema }
func (e *Explain) String() string        { return toTreeNode(e).String() }
func (e *Explain) isPlan()               {}
