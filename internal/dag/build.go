package dag

import (
	"context"
	"fmt"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/nodeid"
	"github.com/buildrig/buildrig/internal/registry"
)

// Build constructs a complete, validated dependency graph from a config model.
func Build(ctx context.Context, model *config.Model, r *registry.Registry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	graph := &Graph{Nodes: make(map[string]*Node)}

	// First pass: create one node per configured product.
	if err := createNodes(ctx, model, graph, r); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(graph.Nodes))

	// Second pass: link dependencies.
	if err := linkNodes(ctx, graph, r); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	logger.Debug("Build: Graph construction successful.")
	return graph, nil
}

// createNodes performs the first pass of graph creation.
func createNodes(ctx context.Context, model *config.Model, graph *Graph, r *registry.Registry) error {
	logger := ctxlog.FromContext(ctx)
	for _, p := range model.Products {
		if _, known := r.DefinitionRegistry[p.AdapterType]; !known {
			return fmt.Errorf("unknown adapter type %q for product %q", p.AdapterType, p.Name)
		}
		id := nodeid.ForProduct(p.AdapterType, p.Name)
		if _, exists := graph.Nodes[id.String()]; exists {
			logger.Warn("Duplicate product definition found, it will be overwritten.", "id", id.String())
		}
		graph.Nodes[id.String()] = &Node{
			id:         id,
			Name:       p.Name,
			Product:    p,
			Deps:       make(map[string]*Node),
			Dependents: make(map[string]*Node),
		}
	}
	return nil
}

// detectCycles checks for circular dependencies in the graph using DFS.
func (g *Graph) detectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(node *Node) error
	visit = func(node *Node) error {
		visiting[node.ID()] = true
		for _, dep := range node.Deps {
			if visiting[dep.ID()] {
				return fmt.Errorf("cycle detected involving '%s'", dep.ID())
			}
			if !visited[dep.ID()] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, node.ID())
		visited[node.ID()] = true
		return nil
	}

	for _, node := range g.Nodes {
		if !visited[node.ID()] {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}
