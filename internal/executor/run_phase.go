package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/dag"
	"github.com/buildrig/buildrig/internal/fsutil"
	"github.com/buildrig/buildrig/internal/product"
)

// runHandler decodes the product's arguments, assembles the build context,
// and invokes the named handler for one phase of one node.
func (e *Executor) runHandler(ctx context.Context, node *dag.Node, ph phase, adapterDef *config.AdapterDefinition, handlerName string) error {
	logger := ctxlog.FromContext(ctx).With("product", node.ID(), "phase", ph.name)
	logger.Info("▶️ Starting phase")

	registeredHandler, ok := e.registry.HandlerRegistry[handlerName]
	if !ok {
		return fmt.Errorf("handler '%s' not registered", handlerName)
	}

	logger.Debug("Decoding product arguments.")
	evalCtx := e.buildEvalContext(ctx, node)
	inputStruct := registeredHandler.NewInput()
	if inputStruct != nil {
		if err := e.converter.DecodeBody(ctx, inputStruct, node.Product.Arguments, adapterDef.Inputs, evalCtx); err != nil {
			return fmt.Errorf("failed to decode arguments for %s: %w", node.ID(), err)
		}
	}
	logger.Debug("Product input:", "data", formatValueForLogs(inputStruct))

	bc := e.newBuildContext(node, adapterDef)
	if ph.name == phaseBuild {
		if err := fsutil.EnsureDir(bc.BuildDir); err != nil {
			return err
		}
	}

	logger.Debug("Calling phase handler.", "handler", handlerName)
	handlerFunc := reflect.ValueOf(registeredHandler.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(bc)}
	if inputStruct == nil {
		inputType := handlerFunc.Type().In(2)
		callArgs = append(callArgs, reflect.Zero(inputType))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(inputStruct))
	}

	results := handlerFunc.Call(callArgs)
	nativeOutput, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return errResult.(error)
	}

	// Only the build phase publishes outputs for downstream expressions.
	if ph.name == phaseBuild {
		ctyOutput, err := e.converter.ToCtyValue(nativeOutput)
		if err != nil {
			return fmt.Errorf("failed to convert handler output to cty.Value for %s: %w", node.ID(), err)
		}
		node.Output = ctyOutput
		logger.Debug("Product output:", "data", formatValueForLogs(node.Output))
	}

	logger.Info("✅ Finished phase")
	return nil
}

// newBuildContext derives the per-product working directories and bundles
// them with the run-wide environment.
func (e *Executor) newBuildContext(node *dag.Node, adapterDef *config.AdapterDefinition) *product.BuildContext {
	ws := e.env.Workspace
	return &product.BuildContext{
		Workspace: ws,
		Toolchain: e.env.Toolchain,
		Target:    e.env.Target,
		Shell:     e.env.Shell,
		SourceDir: filepath.Join(ws.SourceRoot, adapterDef.SourceName),
		BuildDir:  filepath.Join(ws.BuildRoot, node.Product.AdapterType+"-"+node.Name),
	}
}
