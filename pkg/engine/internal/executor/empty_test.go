package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

func TestEmptyExec(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		exec := NewEmptyExec(peopleSchema, false)
		require.Equal(t, 1, exec.OutputPartitioning().PartitionCount())
		require.Empty(t, readRows(t, exec, 0))
	})

	t.Run("one row of nulls", func(t *testing.T) {
		exec := NewEmptyExec(peopleSchema, true)
		require.Equal(t, []string{"(null),(null)"}, readRows(t, exec, 0))
	})

	t.Run("partition out of range", func(t *testing.T) {
		_, err := NewEmptyExec(peopleSchema, true).Execute(t.Context(), 1)
		require.ErrorIs(t, err, errors.ErrIndex)
	})
}
