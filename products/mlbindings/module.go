// Package mlbindings builds the language bindings for the ML runtime with
// CMake and Ninja, configured against the runtime's build outputs.
package mlbindings

import (
	"context"
	"path/filepath"
	"reflect"

	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/product"
	"github.com/buildrig/buildrig/internal/registry"
	"github.com/buildrig/buildrig/internal/shell"
	"github.com/buildrig/buildrig/internal/toolchain"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the ml_bindings adapter. The runtime
// arguments are normally wired from an ml_runtime product's outputs.
type Input struct {
	RuntimeIncludeDir string   `rig:"runtime_include_dir"`
	RuntimeLibPath    string   `rig:"runtime_lib_path"`
	Compiler          string   `rig:"compiler"`
	ExtraCMakeArgs    []string `rig:"extra_cmake_args"`
}

// Output names the binding build tree for downstream consumers.
type Output struct {
	BuildDir string `cty:"build_dir"`
}

// OnBuildMLBindings is the handler for the ml_bindings adapter's build phase.
func OnBuildMLBindings(ctx context.Context, bc *product.BuildContext, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	compiler := input.Compiler
	if compiler == "" {
		compiler = bc.Toolchain.Path(toolchain.ToolCC)
	}

	argv := []string{
		bc.Toolchain.Path(toolchain.ToolCMake),
		"-G", "Ninja",
		"-D", "BUILD_SHARED_LIBS=YES",
		"-D", "CMAKE_INSTALL_PREFIX=" + bc.InstallRoot(),
		"-D", "CMAKE_MAKE_PROGRAM=" + bc.Toolchain.Path(toolchain.ToolNinja),
		"-D", "CMAKE_C_COMPILER=" + compiler,
		"-D", "MLRT_INCLUDE_DIR=" + input.RuntimeIncludeDir,
		"-D", "MLRT_LIBRARY=" + input.RuntimeLibPath,
		"-D", "CMAKE_SHARED_LINKER_FLAGS=-L" + filepath.Dir(input.RuntimeLibPath),
	}
	argv = append(argv, input.ExtraCMakeArgs...)
	argv = append(argv, "-B", bc.BuildDir, "-S", bc.SourceDir)

	// CMake before 3.16 only generates correct build rules when invoked
	// from inside the build tree, so both cmake calls run there.
	logger.Info("Configuring bindings build.", "build_dir", bc.BuildDir)
	if err := bc.Shell.Run(ctx, &shell.Command{Argv: argv, Dir: bc.BuildDir}); err != nil {
		return nil, err
	}

	logger.Info("Building bindings.")
	err := bc.Shell.Run(ctx, &shell.Command{
		Argv: []string{bc.Toolchain.Path(toolchain.ToolCMake), "--build", bc.BuildDir},
		Dir:  bc.BuildDir,
	})
	if err != nil {
		return nil, err
	}

	return &Output{BuildDir: bc.BuildDir}, nil
}

// OnInstallMLBindings is the handler for the ml_bindings adapter's install
// phase.
func OnInstallMLBindings(ctx context.Context, bc *product.BuildContext, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Installing bindings.", "prefix", bc.InstallRoot())

	err := bc.Shell.Run(ctx, &shell.Command{
		Argv: []string{bc.Toolchain.Path(toolchain.ToolCMake), "--build", bc.BuildDir, "--target", "install"},
	})
	if err != nil {
		return nil, err
	}
	return nil, nil
}

// Register registers the adapter's handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	newInput := func() any { return new(Input) }
	inputType := reflect.TypeOf(Input{})

	r.RegisterHandler("OnBuildMLBindings", &registry.RegisteredHandler{
		NewInput:  newInput,
		InputType: inputType,
		Fn:        OnBuildMLBindings,
	})
	r.RegisterHandler("OnInstallMLBindings", &registry.RegisteredHandler{
		NewInput:  newInput,
		InputType: inputType,
		Fn:        OnInstallMLBindings,
	})
}
