package dag

import (
	"context"
	"fmt"

	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/nodeid"
	"github.com/buildrig/buildrig/internal/registry"
	"github.com/hashicorp/hcl/v2"
)

// parsedProductRef holds information extracted from an HCL traversal.
type parsedProductRef struct {
	AdapterType string
	Name        string
	// Output is the referenced output attribute, or "" when the traversal
	// stops at the product itself.
	Output string
}

// parseProductTraversal analyzes an HCL traversal to extract a product
// reference of the form `product.<adapter_type>.<name>`, optionally
// followed by an output attribute.
func parseProductTraversal(traversal hcl.Traversal) (*parsedProductRef, bool) {
	if len(traversal) < 3 || traversal.RootName() != nodeid.KindProduct {
		return nil, false
	}

	adapterAttr, adapterOk := traversal[1].(hcl.TraverseAttr)
	nameAttr, nameOk := traversal[2].(hcl.TraverseAttr)
	if !adapterOk || !nameOk {
		return nil, false
	}

	ref := &parsedProductRef{
		AdapterType: adapterAttr.Name,
		Name:        nameAttr.Name,
	}
	if len(traversal) > 3 {
		if outputAttr, ok := traversal[3].(hcl.TraverseAttr); ok {
			ref.Output = outputAttr.Name
		}
	}
	return ref, true
}

// linkImplicitDeps parses an expression for variable traversals to create
// dependency links.
func linkImplicitDeps(ctx context.Context, node *Node, expr hcl.Expression, graph *Graph, r *registry.Registry) error {
	baseLogger := ctxlog.FromContext(ctx)

	for _, traversal := range expr.Variables() {
		logger := baseLogger.With("node_id", node.ID(), "traversal", formatTraversal(traversal))

		ref, ok := parseProductTraversal(traversal)
		if !ok {
			continue
		}
		logger.Debug("Parsed implicit dependency as product reference.", "adapter_type", ref.AdapterType, "name", ref.Name)

		depID := nodeid.ForProduct(ref.AdapterType, ref.Name).String()
		depNode, found := graph.Nodes[depID]
		if !found {
			return fmt.Errorf("implicit dependency error in '%s': referenced product '%s' does not exist", node.ID(), depID)
		}

		if ref.Output != "" {
			if err := validateOutputReference(ref, depNode, r); err != nil {
				return err
			}
		}

		if _, exists := node.Deps[depID]; !exists {
			logger.Debug("Linking implicit dependency.", "from", node.ID(), "to", depID)
			node.Deps[depID] = depNode
			depNode.Dependents[node.ID()] = node
		}
	}
	return nil
}

// validateOutputReference checks if a reference to a product's output is
// declared by its adapter manifest.
func validateOutputReference(ref *parsedProductRef, depNode *Node, r *registry.Registry) error {
	adapterDef, ok := r.DefinitionRegistry[ref.AdapterType]
	if !ok {
		return fmt.Errorf("internal error: could not find definition for adapter type %s", ref.AdapterType)
	}
	if _, ok := adapterDef.Outputs[ref.Output]; ok {
		return nil
	}
	return fmt.Errorf("reference to undeclared output %q on product %q", ref.Output, depNode.ID())
}
