package executor

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

func TestTransformUp(t *testing.T) {
	rec := CSVToArrow(t, peopleSchema, "a,1\nb,2\nc,3")
	scan := memoryExec(t, []arrow.Record{rec})
	plan := NewLimitExec(NewCoalescePartitionsExec(scan, 0), 0, 2)

	t.Run("visits children first", func(t *testing.T) {
		var visited []string
		out, err := TransformUp(plan, func(p ExecutionPlan) (ExecutionPlan, error) {
			visited = append(visited, OperatorName(p))
			return p, nil
		})
		require.NoError(t, err)
		require.Same(t, plan, out)
		require.Equal(t, []string{"MemoryExec", "CoalescePartitionsExec", "LimitExec"}, visited)
	})

	t.Run("rebuilds parents of rewritten operators", func(t *testing.T) {
		out, err := TransformUp(plan, func(p ExecutionPlan) (ExecutionPlan, error) {
			if c, ok := p.(*CoalescePartitionsExec); ok {
				return c.Children()[0], nil
			}
			return p, nil
		})
		require.NoError(t, err)
		require.NotSame(t, plan, out)
		require.Equal(t, "LimitExec partitions=1 skip=0 fetch=2\n└── MemoryExec partitions=1\n", FormatPlan(out))
		require.Equal(t, []string{"a,1", "b,2"}, readRows(t, out, 0))
	})

	t.Run("first error aborts", func(t *testing.T) {
		calls := 0
		_, err := TransformUp(plan, func(p ExecutionPlan) (ExecutionPlan, error) {
			calls++
			return nil, errors.ErrNotImplemented
		})
		require.ErrorIs(t, err, errors.ErrNotImplemented)
		require.Equal(t, 1, calls)
	})

	t.Run("invalid replacement", func(t *testing.T) {
		ids := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64}}, nil)
		_, err := TransformUp(plan, func(p ExecutionPlan) (ExecutionPlan, error) {
			if _, ok := p.(*CoalescePartitionsExec); ok {
				return NewEmptyExec(ids, false), nil
			}
			return p, nil
		})
		require.ErrorIs(t, err, errors.ErrStructure)
	})
}
