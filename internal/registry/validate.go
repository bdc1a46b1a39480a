package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between manifests and Go
// code. Every phase handler named by a manifest must be registered, and the
// manifest's declared inputs must agree with the handler's input struct in
// both presence and type.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string

	for adapterType, def := range r.DefinitionRegistry {
		parityChecked := false
		for phase, handlerName := range lifecycleHandlers(def.Lifecycle) {
			handler, ok := r.HandlerRegistry[handlerName]
			if !ok {
				errs = append(errs, fmt.Sprintf("adapter '%s': manifest names %s handler '%s' which is not registered", adapterType, phase, handlerName))
				continue
			}
			// Phase handlers share one input struct, so parity needs
			// checking only once per adapter.
			if !parityChecked {
				errs = append(errs, r.checkInputParity(ctx, adapterType, def, handler)...)
				parityChecked = true
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// checkInputParity compares one handler's input struct against the
// manifest's input declarations.
func (r *Registry) checkInputParity(ctx context.Context, adapterType string, def *config.AdapterDefinition, handler *RegisteredHandler) []string {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	if handler.InputType == nil {
		if len(def.Inputs) > 0 {
			errs = append(errs, fmt.Sprintf("adapter '%s': manifest declares inputs, but Go handler has no input struct", adapterType))
		}
		return errs
	}

	hclInputs := make(map[string]struct{})
	for name := range def.Inputs {
		hclInputs[name] = struct{}{}
	}

	goInputs := make(map[string]reflect.StructField)
	inputType := handler.InputType
	for i := 0; i < inputType.NumField(); i++ {
		field := inputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("rig")
		tagName := strings.Split(tag, ",")[0]
		if tagName != "" && tagName != "-" {
			goInputs[tagName] = field
		}
	}

	// Check for presence mismatches
	for name := range goInputs {
		if _, ok := hclInputs[name]; !ok {
			errs = append(errs, fmt.Sprintf("adapter '%s': Go struct has field for input '%s' which is not declared in manifest", adapterType, name))
		}
	}
	for name := range hclInputs {
		if _, ok := goInputs[name]; !ok {
			errs = append(errs, fmt.Sprintf("adapter '%s': manifest declares input '%s' which is not found in Go struct", adapterType, name))
		}
	}

	// Check for type mismatches
	for name, inputDef := range def.Inputs {
		goField, ok := goInputs[name]
		if !ok {
			continue // Already handled by presence check
		}

		manifestType := inputDef.Type
		if manifestType.Equals(cty.DynamicPseudoType) {
			logger.Warn("Manifest input with 'type = any' disables static type checking. Consider a specific type like 'string', 'number', or 'bool'.", "adapter", adapterType, "input", name)
			continue
		}

		goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
		if err != nil {
			errs = append(errs, fmt.Sprintf("adapter '%s', input '%s': could not imply cty type from Go field type %s: %v", adapterType, name, goField.Type, err))
			continue
		}

		if !manifestType.Equals(goFieldType) {
			errs = append(errs, fmt.Sprintf("adapter '%s', input '%s': type mismatch. Manifest requires '%s' but Go struct field '%s' provides '%s'",
				adapterType, name, manifestType.FriendlyName(), goField.Name, goFieldType.FriendlyName()))
		}
	}

	return errs
}

// lifecycleHandlers flattens a lifecycle block into phase -> handler name,
// skipping phases the adapter leaves as no-ops.
func lifecycleHandlers(lc *config.Lifecycle) map[string]string {
	handlers := make(map[string]string)
	if lc == nil {
		return handlers
	}
	if lc.Build != "" {
		handlers["build"] = lc.Build
	}
	if lc.Test != "" {
		handlers["test"] = lc.Test
	}
	if lc.Install != "" {
		handlers["install"] = lc.Install
	}
	return handlers
}
