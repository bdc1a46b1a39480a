package executor

import (
	"context"
	"fmt"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/dag"
	"github.com/buildrig/buildrig/internal/product"
	"github.com/buildrig/buildrig/internal/registry"
)

// Phase names in walk order.
const (
	phaseBuild   = "build"
	phaseTest    = "test"
	phaseInstall = "install"
)

// phase describes one lifecycle phase of the walk: its name, whether a
// product opted in, and which handler the adapter manifest names for it.
type phase struct {
	name        string
	enabled     func(p *config.Product) bool
	handlerName func(l *config.Lifecycle) string
}

// phases is the fixed walk order. Every product finishes a phase before
// any product starts the next one.
var phases = []phase{
	{
		name:        phaseBuild,
		enabled:     func(p *config.Product) bool { return p.BuildEnabled },
		handlerName: func(l *config.Lifecycle) string { return l.Build },
	},
	{
		name:        phaseTest,
		enabled:     func(p *config.Product) bool { return p.TestEnabled },
		handlerName: func(l *config.Lifecycle) string { return l.Test },
	},
	{
		name:        phaseInstall,
		enabled:     func(p *config.Product) bool { return p.InstallEnabled },
		handlerName: func(l *config.Lifecycle) string { return l.Install },
	},
}

// Executor walks the product graph and drives each product's lifecycle
// phases through its registered adapter handlers, one external command
// at a time.
type Executor struct {
	graph     *dag.Graph
	registry  *registry.Registry
	converter config.Converter
	env       *product.Environment
}

// New creates an executor for the given graph.
func New(graph *dag.Graph, r *registry.Registry, converter config.Converter, env *product.Environment) *Executor {
	return &Executor{
		graph:     graph,
		registry:  r,
		converter: converter,
		env:       env,
	}
}

// Run executes the graph phase by phase in topological order and returns
// an error as soon as any node fails. The error wraps the root cause, so
// external tool exit codes stay reachable via errors.As.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	order := e.graph.TopologicalOrder()
	logger.Debug("Execution order resolved.", "node_count", len(order))

	for _, ph := range phases {
		for _, node := range order {
			if node.GetState() == dag.Failed {
				continue
			}
			if err := e.runNodePhase(ctx, node, ph); err != nil {
				node.SetState(dag.Failed)
				node.Error = err
				e.skipDependents(ctx, node)
				return fmt.Errorf("%s failed for %s: %w", ph.name, node.ID(), err)
			}
			if ph.name == phaseBuild {
				node.SetState(dag.Done)
			}
		}
	}

	logger.Debug("All phases completed.")
	return nil
}

// runNodePhase runs a single phase for a single node, skipping it when the
// product opted out or the adapter declares no handler for the phase.
func (e *Executor) runNodePhase(ctx context.Context, node *dag.Node, ph phase) error {
	logger := ctxlog.FromContext(ctx).With("product", node.ID(), "phase", ph.name)

	if !ph.enabled(node.Product) {
		logger.Debug("Phase disabled for product, skipping.")
		return nil
	}

	adapterDef, ok := e.registry.DefinitionRegistry[node.Product.AdapterType]
	if !ok {
		return fmt.Errorf("unknown adapter type '%s'", node.Product.AdapterType)
	}
	handlerName := ph.handlerName(adapterDef.Lifecycle)
	if handlerName == "" {
		logger.Debug("Adapter declares no handler for phase, skipping.")
		return nil
	}

	return e.runHandler(ctx, node, ph, adapterDef, handlerName)
}

// skipDependents recursively marks all downstream nodes of a failed node
// as failed.
func (e *Executor) skipDependents(ctx context.Context, node *dag.Node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range node.Dependents {
		if dependent.GetState() == dag.Failed {
			continue
		}
		logger.Warn("Skipping dependent node due to upstream failure.", "nodeID", dependent.ID(), "dependency", node.ID())
		dependent.SetState(dag.Failed)
		dependent.Error = fmt.Errorf("skipped due to upstream failure of '%s'", node.ID())
		e.skipDependents(ctx, dependent)
	}
}
