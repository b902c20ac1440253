package graph

import (
	"errors"
	"testing"

	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, DetectCycles(edgeGraph(nil)))
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := edgeGraph([]string{"a", "b", "c", "d"},
			[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "c"}, [2]string{"c", "d"})
		assert.NoError(t, DetectCycles(g))
	})

	t.Run("two package cycle names exactly its members", func(t *testing.T) {
		g := edgeGraph([]string{"A", "B", "C"},
			[2]string{"A", "B"}, [2]string{"B", "A"}, [2]string{"C", "A"})
		err := DetectCycles(g)

		var cycleErr *models.DependencyCycleError
		require.True(t, errors.As(err, &cycleErr))
		require.Len(t, cycleErr.Cycles, 1)
		assert.Equal(t, []string{"A", "B"}, cycleErr.Cycles[0].Members)
		assert.Equal(t, []string{"A", "B"}, cycleErr.Cycles[0].Path)
		assert.Equal(t, []string{"A", "B"}, cycleErr.Packages())
		assert.ErrorContains(t, err, "A -> B -> A")
	})

	t.Run("longer cycle is reported in edge order", func(t *testing.T) {
		g := edgeGraph([]string{"a", "b", "c", "d"},
			[2]string{"a", "c"}, [2]string{"c", "b"}, [2]string{"b", "d"}, [2]string{"d", "a"})
		var cycleErr *models.DependencyCycleError
		require.ErrorAs(t, DetectCycles(g), &cycleErr)
		require.Len(t, cycleErr.Cycles, 1)
		assert.Equal(t, []string{"a", "b", "c", "d"}, cycleErr.Cycles[0].Members)
		assert.Equal(t, []string{"a", "c", "b", "d"}, cycleErr.Cycles[0].Path)
	})

	t.Run("every disjoint cycle is reported", func(t *testing.T) {
		g := edgeGraph([]string{"a", "b", "x", "y", "z"},
			[2]string{"a", "b"},
			[2]string{"x", "y"}, [2]string{"y", "z"}, [2]string{"z", "y"},
			[2]string{"b", "a"})
		var cycleErr *models.DependencyCycleError
		require.ErrorAs(t, DetectCycles(g), &cycleErr)
		require.Len(t, cycleErr.Cycles, 2)
		assert.Equal(t, []string{"a", "b"}, cycleErr.Cycles[0].Members)
		assert.Equal(t, []string{"y", "z"}, cycleErr.Cycles[1].Members)
	})

	t.Run("self loop is a cycle", func(t *testing.T) {
		g := edgeGraph([]string{"solo"}, [2]string{"solo", "solo"})
		var cycleErr *models.DependencyCycleError
		require.ErrorAs(t, DetectCycles(g), &cycleErr)
		assert.Equal(t, []string{"solo"}, cycleErr.Cycles[0].Path)
	})
}
