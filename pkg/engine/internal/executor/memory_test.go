package executor

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/quarrydb/quarry/pkg/engine/internal/datatype"
	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

func TestMemoryExec(t *testing.T) {
	var (
		rec1 = CSVToArrow(t, peopleSchema, "alice,30\nbob,25")
		rec2 = CSVToArrow(t, peopleSchema, "carol,41")
	)

	t.Run("partitions in order", func(t *testing.T) {
		exec := memoryExec(t, []arrow.Record{rec1, rec2}, []arrow.Record{}, []arrow.Record{rec2})
		require.Equal(t, 3, exec.OutputPartitioning().PartitionCount())
		require.Empty(t, exec.Children())

		require.Equal(t, []string{"alice,30", "bob,25", "carol,41"}, readRows(t, exec, 0))
		require.Empty(t, readRows(t, exec, 1))
		require.Equal(t, []string{"carol,41"}, readRows(t, exec, 2))
	})

	t.Run("partitions can be read repeatedly", func(t *testing.T) {
		exec := memoryExec(t, []arrow.Record{rec1})
		require.Equal(t, readRows(t, exec, 0), readRows(t, exec, 0))
	})

	t.Run("concurrent executions leave the source untouched", func(t *testing.T) {
		source := []arrow.Record{rec1, rec2}
		exec := memoryExec(t, source)

		var results [2][]string
		g, ctx := errgroup.WithContext(context.Background())
		for i := range results {
			g.Go(func() error {
				pipeline, err := exec.Execute(ctx, 0)
				if err != nil {
					return err
				}
				defer pipeline.Close()

				records, err := ReadAll(ctx, pipeline)
				if err != nil {
					return err
				}
				defer releaseAll(records)
				results[i] = rows(records...)
				return nil
			})
		}
		require.NoError(t, g.Wait())

		want := []string{"alice,30", "bob,25", "carol,41"}
		require.Equal(t, want, results[0])
		require.Equal(t, want, results[1])
		require.Same(t, rec1, source[0])
		require.Same(t, rec2, source[1])
		require.Equal(t, want, readRows(t, exec, 0))
	})

	t.Run("projection", func(t *testing.T) {
		exec, err := NewMemoryExec(peopleSchema, [][]arrow.Record{{rec1}}, []int{1, 0})
		require.NoError(t, err)

		require.Equal(t, []string{"age", "name"}, fieldNames(exec.Schema()))
		require.Equal(t, []string{"30,alice", "25,bob"}, readRows(t, exec, 0))
	})

	t.Run("empty projection", func(t *testing.T) {
		exec, err := NewMemoryExec(peopleSchema, [][]arrow.Record{{rec1}}, []int{})
		require.NoError(t, err)
		require.Equal(t, 0, exec.Schema().NumFields())
	})

	t.Run("batch size", func(t *testing.T) {
		rec3 := CSVToArrow(t, peopleSchema, "a,1\nb,2\nc,3\nd,4\ne,5")
		exec := memoryExec(t, []arrow.Record{rec3, rec2}).WithBatchSize(2)

		records := readRecords(t, exec, 0)
		require.Len(t, records, 4)
		require.Equal(t, []string{"a,1", "b,2"}, rows(records[0]))
		require.Equal(t, []string{"c,3", "d,4"}, rows(records[1]))
		require.Equal(t, []string{"e,5"}, rows(records[2]))
		require.Equal(t, []string{"carol,41"}, rows(records[3]))
	})

	t.Run("projection out of range", func(t *testing.T) {
		_, err := NewMemoryExec(peopleSchema, [][]arrow.Record{{rec1}}, []int{2})
		require.ErrorIs(t, err, errors.ErrIndex)
	})

	t.Run("record with wrong schema", func(t *testing.T) {
		other := datatype.MustSchema(datatype.Column{Name: "id", Type: datatype.Integer})
		_, err := NewMemoryExec(other, [][]arrow.Record{{rec1}}, nil)
		require.ErrorIs(t, err, errors.ErrType)
	})

	t.Run("partition out of range", func(t *testing.T) {
		exec := memoryExec(t, []arrow.Record{rec1})
		_, err := exec.Execute(t.Context(), 1)
		require.ErrorIs(t, err, errors.ErrIndex)
	})

	t.Run("leaf", func(t *testing.T) {
		exec := memoryExec(t, []arrow.Record{rec1})

		same, err := exec.WithNewChildren(nil)
		require.NoError(t, err)
		require.Same(t, exec, same)

		_, err = exec.WithNewChildren([]ExecutionPlan{exec})
		require.ErrorIs(t, err, errors.ErrStructure)
	})
}

func fieldNames(schema *arrow.Schema) []string {
	names := make([]string, 0, schema.NumFields())
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	return names
}
