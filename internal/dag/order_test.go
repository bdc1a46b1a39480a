package dag

import (
	"testing"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeIDs(nodes []*Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	return ids
}

func TestTopologicalOrder_DepsBeforeDependents(t *testing.T) {
	t.Parallel()

	// Arrange: a diamond. Both bindings depend on the compiler, and the
	// packager depends on both bindings.
	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "core", nil),
		testProduct("bindings", "cxx", nil, "compiler.core"),
		testProduct("bindings", "swift", nil, "compiler.core"),
		testProduct("bindings", "all", nil, "bindings.cxx", "bindings.swift"),
	}}
	graph, err := Build(testContext(t), model, testRegistry(t))
	require.NoError(t, err)

	// Act
	order := nodeIDs(graph.TopologicalOrder())

	// Assert: dependency order with lexical tie-breaking.
	assert.Equal(t, []string{
		"product.compiler.core",
		"product.bindings.cxx",
		"product.bindings.swift",
		"product.bindings.all",
	}, order)
}

func TestTopologicalOrder_RootsAreSortedByID(t *testing.T) {
	t.Parallel()

	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "core", nil),
		testProduct("bindings", "standalone", nil),
	}}
	graph, err := Build(testContext(t), model, testRegistry(t))
	require.NoError(t, err)

	order := nodeIDs(graph.TopologicalOrder())

	assert.Equal(t, []string{
		"product.bindings.standalone",
		"product.compiler.core",
	}, order)
}

func TestTopologicalOrder_EmptyGraph(t *testing.T) {
	t.Parallel()

	graph := &Graph{Nodes: map[string]*Node{}}
	assert.Empty(t, graph.TopologicalOrder())
}
