package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosure_TransitivePropagation(t *testing.T) {
	g := edgeGraph([]string{"P", "Q", "R"}, [2]string{"P", "Q"}, [2]string{"Q", "R"})
	order, err := Order(g)
	require.NoError(t, err)

	r := NewClosureResolver(g, order)
	assert.Equal(t, []string{"R", "Q"}, r.Transitive("P"))
	assert.Equal(t, []string{"R"}, r.Transitive("Q"))
	assert.Empty(t, r.Transitive("R"))
}

func TestClosure_DiamondIsDeduplicated(t *testing.T) {
	g := edgeGraph([]string{"top", "left", "right", "base"},
		[2]string{"top", "left"}, [2]string{"top", "right"},
		[2]string{"left", "base"}, [2]string{"right", "base"})
	order, err := Order(g)
	require.NoError(t, err)

	r := NewClosureResolver(g, order)
	assert.Equal(t, []string{"base", "left", "right"}, r.Transitive("top"))
}

func TestClosure_ToolchainIsInherited(t *testing.T) {
	g := edgeGraph([]string{"App", "Lib", "Vendor"},
		[2]string{"App", "Lib"}, [2]string{"Lib", "Vendor"})
	g.Nodes["App"].Toolchain = []string{"iostream"}
	g.Nodes["Vendor"].Toolchain = []string{"cstdint", "atomic"}
	order, err := Order(g)
	require.NoError(t, err)

	r := NewClosureResolver(g, order)
	r.Apply()

	assert.Equal(t, []string{"Vendor", "Lib"}, g.Nodes["App"].Transitive)
	assert.Equal(t, []string{"atomic", "cstdint", "iostream"}, g.Nodes["App"].Toolchain)
	assert.Equal(t, []string{"atomic", "cstdint"}, g.Nodes["Lib"].Toolchain)
	assert.Equal(t, []string{"cstdint", "atomic"}, r.own["Vendor"])
}
