package dag

import (
	"context"

	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/registry"
)

// linkNodes performs the second pass, establishing dependency links.
func linkNodes(ctx context.Context, graph *Graph, r *registry.Registry) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node linking pass.")

	for _, node := range graph.Nodes {
		nodeLogger := logger.With("node_id", node.ID())
		nodeLogger.Debug("Processing dependencies for node.")

		if err := linkExplicitDeps(ctx, node, node.Product.DependsOn, graph); err != nil {
			return err
		}
		for _, expr := range node.Product.Arguments {
			if err := linkImplicitDeps(ctx, node, expr, graph, r); err != nil {
				return err
			}
		}
	}
	logger.Debug("Finished node linking pass.")
	return nil
}
