package dag

import (
	"context"
	"fmt"
	"strings"

	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/nodeid"
)

// linkExplicitDeps resolves dependencies from a `depends_on` attribute.
// Addresses may be written with or without the leading "product." kind,
// so "ml_runtime.main" and "product.ml_runtime.main" are equivalent.
func linkExplicitDeps(ctx context.Context, node *Node, dependsOn []string, graph *Graph) error {
	baseLogger := ctxlog.FromContext(ctx)

	for _, depAddrRaw := range dependsOn {
		logger := baseLogger.With("node_id", node.ID(), "depends_on", depAddrRaw)
		logger.Debug("Resolving explicit dependency.")

		depID := strings.TrimPrefix(depAddrRaw, nodeid.KindProduct+".")
		depID = nodeid.KindProduct + "." + depID

		depNode, found := graph.Nodes[depID]
		if !found {
			return fmt.Errorf("node '%s' depends on non-existent identifier '%s'", node.ID(), depAddrRaw)
		}
		if depNode == node {
			return fmt.Errorf("node '%s' depends on itself", node.ID())
		}

		if _, exists := node.Deps[depNode.ID()]; !exists {
			logger.Debug("Linking explicit dependency.", "from_node_id", node.ID(), "to_node_id", depNode.ID())
			node.Deps[depNode.ID()] = depNode
			depNode.Dependents[node.ID()] = node
		}
	}
	return nil
}
