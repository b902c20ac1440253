package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder(t *testing.T) {
	t.Run("dependencies first", func(t *testing.T) {
		g := edgeGraph([]string{"App", "Lib", "Vendor"},
			[2]string{"App", "Lib"}, [2]string{"Lib", "Vendor"})
		order, err := Order(g)
		require.NoError(t, err)
		assert.Equal(t, []string{"Vendor", "Lib", "App"}, order)
	})

	t.Run("smallest ready id wins ties", func(t *testing.T) {
		g := edgeGraph([]string{"z", "m", "a", "b"},
			[2]string{"a", "z"}, [2]string{"b", "m"})
		order, err := Order(g)
		require.NoError(t, err)
		assert.Equal(t, []string{"m", "b", "z", "a"}, order)
	})

	t.Run("independent packages sort lexicographically", func(t *testing.T) {
		order, err := Order(edgeGraph([]string{"c", "a", "b"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("cyclic graph cannot be ordered", func(t *testing.T) {
		g := edgeGraph([]string{"a", "b"}, [2]string{"a", "b"}, [2]string{"b", "a"})
		_, err := Order(g)
		assert.ErrorContains(t, err, "build order incomplete")
	})
}
