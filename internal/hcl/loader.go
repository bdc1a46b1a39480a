package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/fsutil"
	"github.com/buildrig/buildrig/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Adapters   []*schema.AdapterDefinition `hcl:"adapter,block"`
	Workspaces []*schema.Workspace         `hcl:"workspace,block"`
	Toolchains []*schema.Toolchain         `hcl:"toolchain,block"`
	Products   []*schema.Product           `hcl:"product,block"`
	Remain     hcl.Body                    `hcl:",remain"`
}

// Load orchestrates the entire HCL configuration loading process. It is
// agnostic to the origin of the paths and parses any valid block from any
// file: adapter manifests and workspace definitions may be mixed freely.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{
		Adapters: make(map[string]*config.AdapterDefinition),
	}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		// Translate and merge all discovered blocks into the model.
		for _, adapter := range root.Adapters {
			def, err := l.translateAdapterDefinition(ctx, adapter)
			if err != nil {
				return nil, nil, err
			}
			if _, exists := model.Adapters[def.Type]; exists {
				return nil, nil, fmt.Errorf("duplicate adapter %q declared in %s", def.Type, file)
			}
			model.Adapters[def.Type] = def
		}
		for _, ws := range root.Workspaces {
			if model.Workspace != nil {
				return nil, nil, fmt.Errorf("second workspace block found in %s; exactly one workspace is allowed per run", file)
			}
			model.Workspace = l.translateWorkspace(ws)
		}
		for _, tc := range root.Toolchains {
			if model.Toolchain != nil {
				return nil, nil, fmt.Errorf("second toolchain block found in %s; at most one is allowed per run", file)
			}
			model.Toolchain = l.translateToolchain(tc)
		}
		for _, product := range root.Products {
			model.Products = append(model.Products, l.translateProduct(product))
		}
	}

	if err := checkProductUniqueness(model.Products); err != nil {
		return nil, nil, err
	}
	if model.Workspace == nil {
		return nil, nil, fmt.Errorf("no workspace block found; exactly one workspace is required per run")
	}

	logger.Debug("HCL loading complete.",
		"adapters", len(model.Adapters),
		"products", len(model.Products),
		"has_workspace", model.Workspace != nil,
	)
	return model, NewConverter(), nil
}

// checkProductUniqueness rejects two product blocks sharing an adapter type
// and instance name, which would collide on one graph node.
func checkProductUniqueness(products []*config.Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		key := p.AdapterType + "." + p.Name
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate product %q %q", p.AdapterType, p.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, p := range found {
				if _, wasSeen := seen[p]; !wasSeen {
					allFiles = append(allFiles, p)
					seen[p] = struct{}{}
				}
			}
		} else if filepath.Ext(path) == ".hcl" {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
