// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/schema"
)

// translateWorkspace converts the HCL-specific workspace schema into the
// agnostic model.
func (l *Loader) translateWorkspace(s *schema.Workspace) *config.Workspace {
	prefix := s.InstallPrefix
	if prefix == "" {
		prefix = "usr"
	}
	return &config.Workspace{
		SourceRoot:     s.SourceRoot,
		BuildRoot:      s.BuildRoot,
		InstallDestDir: s.InstallDestDir,
		InstallPrefix:  prefix,
		HostTarget:     s.HostTarget,
	}
}

// translateToolchain converts the HCL-specific toolchain schema into the
// agnostic model.
func (l *Loader) translateToolchain(s *schema.Toolchain) *config.ToolchainOverrides {
	return &config.ToolchainOverrides{
		CC:    s.CC,
		CMake: s.CMake,
		Ninja: s.Ninja,
		Bazel: s.Bazel,
		Git:   s.Git,
	}
}

// translateProduct converts the HCL-specific product schema into the
// agnostic model, applying the phase-toggle defaults: build is on unless
// disabled, test and install are off unless requested.
func (l *Loader) translateProduct(s *schema.Product) *config.Product {
	boolOr := func(v *bool, def bool) bool {
		if v == nil {
			return def
		}
		return *v
	}

	return &config.Product{
		AdapterType:    s.AdapterType,
		Name:           s.Name,
		Arguments:      l.extractBodyAttributes(s.Arguments),
		DependsOn:      s.DependsOn,
		BuildEnabled:   boolOr(s.Build, true),
		TestEnabled:    boolOr(s.Test, false),
		InstallEnabled: boolOr(s.Install, false),
	}
}

// translateAdapterDefinition converts the HCL-specific adapter schema into
// the agnostic model.
func (l *Loader) translateAdapterDefinition(ctx context.Context, s *schema.AdapterDefinition) (*config.AdapterDefinition, error) {
	a := &config.AdapterDefinition{
		Type:        s.Type,
		Description: s.Description,
		SourceName:  s.SourceName,
		Tools:       s.Tools,
		Inputs:      make(map[string]*config.InputDefinition),
		Outputs:     make(map[string]*config.OutputDefinition),
	}
	if s.Lifecycle != nil {
		a.Lifecycle = &config.Lifecycle{
			Build:   s.Lifecycle.Build,
			Test:    s.Lifecycle.Test,
			Install: s.Lifecycle.Install,
		}
	}

	for _, in := range s.Inputs {
		translatedInput, err := translateInputDefinition(ctx, in, s.Type)
		if err != nil {
			return nil, err
		}
		a.Inputs[in.Name] = translatedInput
	}

	for _, out := range s.Outputs {
		parsedType, err := typeExprToCtyType(ctx, out.Type)
		if err != nil {
			return nil, fmt.Errorf("in adapter '%s', output '%s': %w", s.Type, out.Name, err)
		}
		a.Outputs[out.Name] = &config.OutputDefinition{
			Name:        out.Name,
			Type:        parsedType,
			Description: out.Description,
		}
	}
	return a, nil
}

// translateInputDefinition is a helper that processes a single HCL input
// block, handling its default value and type parsing.
func translateInputDefinition(ctx context.Context, in *schema.InputDefinition, adapterType string) (*config.InputDefinition, error) {
	var defaultVal *cty.Value
	var isOptional bool

	if in.Default != nil {
		val, diags := in.Default.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid default value for input '%s' in adapter '%s': %w", in.Name, adapterType, diags)
		}
		if !val.IsNull() {
			defaultVal = &val
			isOptional = true
		}
	}

	parsedType, err := typeExprToCtyType(ctx, in.Type)
	if err != nil {
		return nil, fmt.Errorf("in adapter '%s', input '%s': %w", adapterType, in.Name, err)
	}

	return &config.InputDefinition{
		Name:        in.Name,
		Type:        parsedType,
		Description: in.Description,
		Default:     defaultVal,
		Optional:    isOptional,
	}, nil
}

// extractBodyAttributes converts an arguments block body into a map of raw
// expressions keyed by attribute name.
func (l *Loader) extractBodyAttributes(block *schema.ProductArgs) map[string]hcl.Expression {
	if block == nil || block.Body == nil {
		return nil
	}
	attrs, _ := block.Body.JustAttributes()
	if attrs == nil {
		return nil
	}
	exprMap := make(map[string]hcl.Expression)
	for name, attr := range attrs {
		exprMap[name] = attr.Expr
	}
	return exprMap
}
