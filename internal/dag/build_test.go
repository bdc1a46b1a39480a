package dag

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/registry"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// testContext returns a context carrying a discard logger, since graph
// construction logs through ctxlog.
func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// testRegistry returns a registry with two adapter definitions, enough to
// exercise linking and output validation.
func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	r.DefinitionRegistry["compiler"] = &config.AdapterDefinition{
		Type: "compiler",
		Outputs: map[string]*config.OutputDefinition{
			"lib_path": {Name: "lib_path", Type: cty.String},
		},
	}
	r.DefinitionRegistry["bindings"] = &config.AdapterDefinition{
		Type: "bindings",
		Outputs: map[string]*config.OutputDefinition{
			"build_dir": {Name: "build_dir", Type: cty.String},
		},
	}
	return r
}

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), "failed to parse %q: %s", src, diags.Error())
	return expr
}

func testProduct(adapterType, name string, args map[string]hcl.Expression, dependsOn ...string) *config.Product {
	return &config.Product{
		AdapterType:  adapterType,
		Name:         name,
		Arguments:    args,
		DependsOn:    dependsOn,
		BuildEnabled: true,
	}
}

func TestBuild_CycleDetection(t *testing.T) {
	t.Parallel()

	// Arrange: two products with a circular dependency (A -> B -> A).
	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "a", nil, "compiler.b"),
		testProduct("compiler", "b", nil, "compiler.a"),
	}}

	// Act
	_, err := Build(testContext(t), model, testRegistry(t))

	// Assert
	require.Error(t, err)
	assert.ErrorContains(t, err, "cycle")
}

func TestBuild_UnknownAdapterType(t *testing.T) {
	t.Parallel()

	model := &config.Model{Products: []*config.Product{
		testProduct("interpreter", "main", nil),
	}}

	_, err := Build(testContext(t), model, testRegistry(t))

	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown adapter type "interpreter"`)
}

func TestBuild_LinksExplicitDeps(t *testing.T) {
	t.Parallel()

	// Arrange: one dependency written bare, one with the "product." kind.
	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "core", nil),
		testProduct("bindings", "cxx", nil, "compiler.core"),
		testProduct("bindings", "swift", nil, "product.compiler.core"),
	}}

	// Act
	graph, err := Build(testContext(t), model, testRegistry(t))

	// Assert
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 3)

	core := graph.Nodes["product.compiler.core"]
	cxx := graph.Nodes["product.bindings.cxx"]
	swift := graph.Nodes["product.bindings.swift"]
	require.NotNil(t, core)
	require.NotNil(t, cxx)
	require.NotNil(t, swift)

	assert.Contains(t, cxx.Deps, core.ID())
	assert.Contains(t, swift.Deps, core.ID())
	assert.Contains(t, core.Dependents, cxx.ID())
	assert.Contains(t, core.Dependents, swift.ID())
}

func TestBuild_ExplicitDepNonExistent(t *testing.T) {
	t.Parallel()

	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "core", nil),
		testProduct("bindings", "cxx", nil, "compiler.missing"),
	}}

	_, err := Build(testContext(t), model, testRegistry(t))

	require.Error(t, err)
	assert.ErrorContains(t, err, "non-existent identifier 'compiler.missing'")
}

func TestBuild_ExplicitSelfDependency(t *testing.T) {
	t.Parallel()

	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "core", nil, "compiler.core"),
	}}

	_, err := Build(testContext(t), model, testRegistry(t))

	require.Error(t, err)
	assert.ErrorContains(t, err, "depends on itself")
}

func TestBuild_LinksImplicitDeps(t *testing.T) {
	t.Parallel()

	// Arrange: the bindings product consumes an output of the compiler
	// product through an expression, with no depends_on.
	args := map[string]hcl.Expression{
		"runtime_lib_path": parseExpr(t, "product.compiler.core.lib_path"),
	}
	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "core", nil),
		testProduct("bindings", "cxx", args),
	}}

	// Act
	graph, err := Build(testContext(t), model, testRegistry(t))

	// Assert
	require.NoError(t, err)
	cxx := graph.Nodes["product.bindings.cxx"]
	require.NotNil(t, cxx)
	assert.Contains(t, cxx.Deps, "product.compiler.core")
	assert.Contains(t, graph.Nodes["product.compiler.core"].Dependents, cxx.ID())
}

func TestBuild_ImplicitDepNonExistent(t *testing.T) {
	t.Parallel()

	args := map[string]hcl.Expression{
		"runtime_lib_path": parseExpr(t, "product.compiler.ghost.lib_path"),
	}
	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "core", nil),
		testProduct("bindings", "cxx", args),
	}}

	_, err := Build(testContext(t), model, testRegistry(t))

	require.Error(t, err)
	assert.ErrorContains(t, err, "referenced product 'product.compiler.ghost' does not exist")
}

func TestBuild_UndeclaredOutputReference(t *testing.T) {
	t.Parallel()

	args := map[string]hcl.Expression{
		"runtime_lib_path": parseExpr(t, "product.compiler.core.object_dir"),
	}
	model := &config.Model{Products: []*config.Product{
		testProduct("compiler", "core", nil),
		testProduct("bindings", "cxx", args),
	}}

	_, err := Build(testContext(t), model, testRegistry(t))

	require.Error(t, err)
	assert.ErrorContains(t, err, `undeclared output "object_dir"`)
}

func TestBuild_IgnoresNonProductTraversals(t *testing.T) {
	t.Parallel()

	// Arrange: an expression referencing an unrelated root should not
	// produce a dependency or an error.
	args := map[string]hcl.Expression{
		"compiler": parseExpr(t, "env.CC"),
	}
	model := &config.Model{Products: []*config.Product{
		testProduct("bindings", "cxx", args),
	}}

	// Act
	graph, err := Build(testContext(t), model, testRegistry(t))

	// Assert
	require.NoError(t, err)
	assert.Empty(t, graph.Nodes["product.bindings.cxx"].Deps)
}
