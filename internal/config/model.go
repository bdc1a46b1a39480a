package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of the entire
// application configuration: every adapter manifest plus the user's
// workspace definition.
type Model struct {
	Adapters  map[string]*AdapterDefinition
	Workspace *Workspace
	Toolchain *ToolchainOverrides
	Products  []*Product
}

// Workspace describes the directory layout a run operates in.
type Workspace struct {
	// SourceRoot holds one checkout per product, named by the adapter's
	// source name.
	SourceRoot string

	// BuildRoot holds one out-of-tree build directory per product.
	BuildRoot string

	// InstallDestDir and InstallPrefix combine into the install
	// destination, e.g. destdir "/tmp/install" + prefix "usr".
	InstallDestDir string
	InstallPrefix  string

	// HostTarget is the platform tag, e.g. "linux-x86_64". Empty means
	// autodetect from the running host.
	HostTarget string
}

// ToolchainOverrides carries explicit tool paths. Empty fields resolve
// automatically.
type ToolchainOverrides struct {
	CC    string
	CMake string
	Ninja string
	Bazel string
	Git   string
}

// Product is the format-agnostic representation of a `product` block: one
// buildable instance of an adapter.
type Product struct {
	AdapterType string
	Name        string
	Arguments   map[string]hcl.Expression
	DependsOn   []string

	// Phase toggles with their defaults already applied: build runs
	// unless disabled, test and install run only when requested.
	BuildEnabled   bool
	TestEnabled    bool
	InstallEnabled bool
}

// --- Adapter Manifest Models ---

// AdapterDefinition is the format-agnostic representation of an adapter's
// manifest.
type AdapterDefinition struct {
	Type        string
	Description string

	// SourceName is the checkout directory under the workspace source
	// root that this adapter builds from.
	SourceName string

	// Tools lists the external tools the adapter invokes. They must
	// resolve before any product of this adapter runs.
	Tools []string

	Lifecycle *Lifecycle
	Inputs    map[string]*InputDefinition
	Outputs   map[string]*OutputDefinition
}

// Lifecycle maps an adapter's phases to Go handler names. An empty name
// makes that phase a no-op for every product of the adapter.
type Lifecycle struct {
	Build   string
	Test    string
	Install string
}

// InputDefinition defines a single input argument for an adapter.
type InputDefinition struct {
	Name        string
	Type        cty.Type
	Description string
	Default     *cty.Value
	Optional    bool
}

// OutputDefinition defines a single output value from an adapter's build.
type OutputDefinition struct {
	Name        string
	Type        cty.Type
	Description string
}
