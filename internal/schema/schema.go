package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Primary Workspace Structures ---

// ProductArgs represents the content of the 'arguments' block within a product.
type ProductArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Product represents a `product` block from a user's workspace file. It is
// a buildable instance of a defined adapter.
type Product struct {
	AdapterType string       `hcl:"adapter_type,label"`
	Name        string       `hcl:"instance_name,label"`
	Arguments   *ProductArgs `hcl:"arguments,block"`
	DependsOn   []string     `hcl:"depends_on,optional"`
	Build       *bool        `hcl:"build,optional"`
	Test        *bool        `hcl:"test,optional"`
	Install     *bool        `hcl:"install,optional"`
}

// Workspace represents the `workspace` block naming the directory layout a
// run operates in. Exactly one workspace block must exist per run.
type Workspace struct {
	SourceRoot     string `hcl:"source_root"`
	BuildRoot      string `hcl:"build_root"`
	InstallDestDir string `hcl:"install_destdir,optional"`
	InstallPrefix  string `hcl:"install_prefix,optional"`
	HostTarget     string `hcl:"host_target,optional"`
}

// Toolchain represents the optional `toolchain` block overriding the paths
// of external build tools.
type Toolchain struct {
	CC    string `hcl:"cc,optional"`
	CMake string `hcl:"cmake,optional"`
	Ninja string `hcl:"ninja,optional"`
	Bazel string `hcl:"bazel,optional"`
	Git   string `hcl:"git,optional"`
}

// --- Adapter Manifest Schemas ---

// Lifecycle defines the mapping from an adapter's build phases to
// registered Go handler functions. An omitted phase is a no-op.
type Lifecycle struct {
	Build   string `hcl:"build,optional"`
	Test    string `hcl:"test,optional"`
	Install string `hcl:"install,optional"`
}

// InputDefinition defines a single input variable for an adapter.
type InputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
}

// OutputDefinition defines a single output value produced by an adapter.
type OutputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
}

// AdapterDefinition represents the HCL manifest for a product `adapter` type.
type AdapterDefinition struct {
	Type        string              `hcl:"type,label"`
	Description string              `hcl:"description,optional"`
	SourceName  string              `hcl:"source_name"`
	Tools       []string            `hcl:"tools,optional"`
	Lifecycle   *Lifecycle          `hcl:"lifecycle,block"`
	Inputs      []*InputDefinition  `hcl:"input,block"`
	Outputs     []*OutputDefinition `hcl:"output,block"`
}
