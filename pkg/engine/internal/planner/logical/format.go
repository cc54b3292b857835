package logical

import (
	"github.com/quarrydb/quarry/pkg/engine/internal/planner/tree"
)

// BuildTree converts a logical plan into a [tree.Node] hierarchy for
// printing.
func BuildTree(p Plan) *tree.Node {
	root := toTreeNode(p)
	for _, input := range Inputs(p) {
		root.AddChild(BuildTree(input))
	}
	return root
}

// PrintAsTree renders p and all of its inputs as an indented tree.
func PrintAsTree(p Plan) string {
	return tree.String(BuildTree(p))
}

func toTreeNode(p Plan) *tree.Node {
	switch p := p.(type) {
	case *Projection:
		return tree.NewNode("Projection",
			tree.NewProperty("exprs", true, toAnySlice(p.Exprs)...),
		)
	case *Filter:
		return tree.NewNode("Filter",
			tree.NewProperty("predicate", false, p.Predicate),
		)
	case *Aggregate:
		return tree.NewNode("Aggregate",
			tree.NewProperty("group_by", true, toAnySlice(p.GroupBy)...),
			tree.NewProperty("aggregates", true, toAnySlice(p.Aggregates)...),
		)
	case *Sort:
		return tree.NewNode("Sort",
			tree.NewProperty("exprs", true, toAnySlice(p.Exprs)...),
		)
	case *Limit:
		return tree.NewNode("Limit",
			tree.NewProperty("n", false, p.N),
		)
	case *Join:
		return tree.NewNode("Join",
			tree.NewProperty("type", false, p.Type),
			tree.NewProperty("on", true, toAnySlice(p.On)...),
		)
	case *TableScan:
		node := tree.NewNode("TableScan",
			tree.NewProperty("table", false, p.TableName),
		)
		if p.Projection != nil {
			node.Properties = append(node.Properties, tree.NewProperty("projection", true, toAnySlice(p.Projection)...))
		}
		return node
	case *EmptyRelation:
		return tree.NewNode("EmptyRelation",
			tree.NewProperty("produce_one_row", false, p.ProduceOneRow),
		)
	case *CreateExternalTable:
		return tree.NewNode("CreateExternalTable",
			tree.NewProperty("name", false, p.Name),
			tree.NewProperty("location", false, p.Location),
			tree.NewProperty("file_type", false, p.FileType),
			tree.NewProperty("has_header", false, p.HasHeader),
		)
	case *Explain:
		return tree.NewNode("Explain",
			tree.NewProperty("verbose", false, p.Verbose),
		)
	case *Extension:
		return tree.NewNode("Extension",
			tree.NewProperty("node", false, p.Node.Name()),
		)
	case *Union:
		return tree.NewNode("Union",
			tree.NewProperty("inputs", false, len(p.Inputs)),
		)
	}
	return tree.NewNode("Unknown")
}

func toAnySlice[T any](s []T) []any {
	ret := make([]any, len(s))
	for i := range s {
		ret[i] = s[i]
	}
	return ret
}
