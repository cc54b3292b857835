package executor

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

func TestUnionExec(t *testing.T) {
	var (
		a1 = CSVToArrow(t, peopleSchema, "alice,30\nbob,25")
		a2 = CSVToArrow(t, peopleSchema, "carol,41")
		b1 = CSVToArrow(t, peopleSchema, "dave,19")
		b2 = CSVToArrow(t, peopleSchema, "erin,52\nfrank,33")
		b3 = CSVToArrow(t, peopleSchema, "grace,28")
		c1 = CSVToArrow(t, peopleSchema, "heidi,60")
	)

	inputs := []ExecutionPlan{
		memoryExec(t, []arrow.Record{a1, a2}),
		memoryExec(t, []arrow.Record{b1, b2, b3}),
		memoryExec(t, []arrow.Record{c1}),
	}
	union, err := NewUnionExec(inputs)
	require.NoError(t, err)

	t.Run("schema of first input", func(t *testing.T) {
		require.Same(t, inputs[0].Schema(), union.Schema())
	})

	t.Run("one partition per input", func(t *testing.T) {
		require.Equal(t, UnknownPartitioning(3), union.OutputPartitioning())
		require.Equal(t, 3, union.OutputPartitioning().PartitionCount())
		require.Equal(t, "UnknownPartitioning(3)", union.OutputPartitioning().String())
	})

	t.Run("children are the inputs in order", func(t *testing.T) {
		children := union.Children()
		require.Equal(t, inputs, children)

		// Modifying the returned slice does not affect the operator.
		children[0] = nil
		require.Same(t, inputs[0], union.Children()[0])
	})

	t.Run("partition i yields input i", func(t *testing.T) {
		pipeline, err := union.Execute(context.Background(), 1)
		require.NoError(t, err)
		defer pipeline.Close()

		records, err := ReadAll(context.Background(), pipeline)
		require.NoError(t, err)
		defer releaseAll(records)

		require.Len(t, records, 3)
		require.Same(t, b1, records[0])
		require.Same(t, b2, records[1])
		require.Same(t, b3, records[2])
	})

	t.Run("every partition", func(t *testing.T) {
		require.Equal(t, []string{"alice,30", "bob,25", "carol,41"}, readRows(t, union, 0))
		require.Equal(t, []string{"dave,19", "erin,52", "frank,33", "grace,28"}, readRows(t, union, 1))
		require.Equal(t, []string{"heidi,60"}, readRows(t, union, 2))
	})

	t.Run("partition out of range", func(t *testing.T) {
		for _, partition := range []int{-1, 3, 100} {
			_, err := union.Execute(context.Background(), partition)
			require.ErrorIs(t, err, errors.ErrIndex)
		}
	})

	t.Run("with new children", func(t *testing.T) {
		replaced, err := union.WithNewChildren([]ExecutionPlan{inputs[2], inputs[1], inputs[0]})
		require.NoError(t, err)
		require.Equal(t, []string{"heidi,60"}, readRows(t, replaced, 0))

		// The original operator is unchanged.
		require.Equal(t, []string{"alice,30", "bob,25", "carol,41"}, readRows(t, union, 0))
	})

	t.Run("with wrong number of children", func(t *testing.T) {
		_, err := union.WithNewChildren(inputs[:2])
		require.ErrorIs(t, err, errors.ErrStructure)

		_, err = union.WithNewChildren(nil)
		require.ErrorIs(t, err, errors.ErrStructure)
	})
}

func TestUnionExec_OnlyFirstPartitionOfEachInput(t *testing.T) {
	var (
		p0 = CSVToArrow(t, peopleSchema, "alice,30")
		p1 = CSVToArrow(t, peopleSchema, "bob,25")
	)

	union, err := NewUnionExec([]ExecutionPlan{
		memoryExec(t, []arrow.Record{p0}, []arrow.Record{p1}),
	})
	require.NoError(t, err)
	require.Equal(t, 1, union.OutputPartitioning().PartitionCount())
	require.Equal(t, []string{"alice,30"}, readRows(t, union, 0))
}

func TestUnionExec_NoInputs(t *testing.T) {
	_, err := NewUnionExec(nil)
	require.ErrorIs(t, err, errors.ErrStructure)
}
