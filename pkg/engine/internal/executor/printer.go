package executor

import (
	"fmt"
	"strings"

	"github.com/quarrydb/quarry/pkg/engine/internal/planner/tree"
)

// OperatorName returns the display name of an operator, which is the name of
// its type.
func OperatorName(plan ExecutionPlan) string {
	name := fmt.Sprintf("%T", plan)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// BuildTree converts plan into a [tree.Node] hierarchy.
func BuildTree(plan ExecutionPlan) *tree.Node {
	node := toTreeNode(plan)
	for _, child := range plan.Children() {
		node.AddChild(BuildTree(child))
	}
	return node
}

// FormatPlan returns the tree representation of plan.
func FormatPlan(plan ExecutionPlan) string {
	return tree.String(BuildTree(plan))
}

func toTreeNode(plan ExecutionPlan) *tree.Node {
	properties := []tree.Property{
		tree.NewProperty("partitions", false, plan.OutputPartitioning().PartitionCount()),
	}

	switch plan := plan.(type) {
	case *MemoryExec:
		if plan.projection != nil {
			properties = append(properties, tree.NewProperty("projection", true, toAnySlice(plan.projection)...))
		}
		if plan.batchSize > 0 {
			properties = append(properties, tree.NewProperty("batch_size", false, plan.batchSize))
		}
	case *EmptyExec:
		properties = append(properties, tree.NewProperty("produce_one_row", false, plan.produceOneRow))
	case *ProjectionExec:
		names := make([]any, 0, plan.schema.NumFields())
		for _, field := range plan.schema.Fields() {
			names = append(names, field.Name)
		}
		properties = append(properties, tree.NewProperty("columns", true, names...))
	case *LimitExec:
		properties = append(properties,
			tree.NewProperty("skip", false, plan.skip),
			tree.NewProperty("fetch", false, plan.fetch),
		)
	case *CoalescePartitionsExec:
		if plan.prefetch > 0 {
			properties = append(properties, tree.NewProperty("prefetch", false, plan.prefetch))
		}
	}

	return tree.NewNode(OperatorName(plan), properties...)
}

func toAnySlice[T any](s []T) []any {
	ret := make([]any, len(s))
	for i := range s {
		ret[i] = s[i]
	}
	return ret
}
