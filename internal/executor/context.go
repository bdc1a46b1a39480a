package executor

import (
	"context"

	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/dag"
	"github.com/buildrig/buildrig/internal/nodeid"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// buildEvalContext creates the HCL evaluation context for a node. It
// exposes the outputs of every finished build as
// `product.<adapter_type>.<name>.<attr>`, giving argument expressions a
// consistent, global view of completed work.
func (e *Executor) buildEvalContext(ctx context.Context, node *dag.Node) *hcl.EvalContext {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building HCL evaluation context.", "node", node.ID())

	// map[adapter_type] -> map[instance_name] -> output object
	outputsByAdapter := make(map[string]map[string]cty.Value)
	for _, graphNode := range e.graph.Nodes {
		if graphNode.GetState() != dag.Done || graphNode.Output.IsNull() {
			continue
		}
		adapterType := graphNode.Product.AdapterType
		if _, ok := outputsByAdapter[adapterType]; !ok {
			outputsByAdapter[adapterType] = make(map[string]cty.Value)
		}
		outputsByAdapter[adapterType][graphNode.Name] = graphNode.Output
		logger.Debug("Collected completed build output.", "source_node_id", graphNode.ID())
	}

	finalOutputs := make(map[string]cty.Value)
	for adapterType, instances := range outputsByAdapter {
		finalOutputs[adapterType] = cty.ObjectVal(instances)
	}

	vars := map[string]cty.Value{
		nodeid.KindProduct: cty.ObjectVal(finalOutputs),
	}
	logger.Debug("Finished building HCL evaluation context.", "node", node.ID(), "adapters", len(finalOutputs))
	return &hcl.EvalContext{Variables: vars}
}
