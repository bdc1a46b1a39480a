// Package mlruntime builds the ML runtime shared library: an auto-answered
// configure run followed by a bazel build, with the versioned artifact
// symlinked to its canonical unversioned name.
package mlruntime

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/fsutil"
	"github.com/buildrig/buildrig/internal/product"
	"github.com/buildrig/buildrig/internal/registry"
	"github.com/buildrig/buildrig/internal/shell"
	"github.com/buildrig/buildrig/internal/toolchain"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the ml_runtime adapter.
type Input struct {
	LibName         string `rig:"lib_name"`
	LibVersion      string `rig:"lib_version"`
	BazelTarget     string `rig:"bazel_target"`
	CompilationMode string `rig:"compilation_mode"`
}

// Output holds the artifact locations downstream products build against.
type Output struct {
	LibDir     string `cty:"lib_dir"`
	LibPath    string `cty:"lib_path"`
	IncludeDir string `cty:"include_dir"`
}

// OnBuildMLRuntime is the handler for the ml_runtime adapter's build phase.
func OnBuildMLRuntime(ctx context.Context, bc *product.BuildContext, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	// The configure script is interactive. An endless stream of empty
	// lines accepts the default answer for every prompt.
	configure := filepath.Join(bc.SourceDir, "configure")
	logger.Info("Configuring runtime source tree.", "script", configure)
	err := bc.Shell.Run(ctx, &shell.Command{
		Argv:  []string{configure},
		Dir:   bc.SourceDir,
		Stdin: shell.RepeatingReader(""),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Building runtime library.", "target", input.BazelTarget, "compilation_mode", input.CompilationMode)
	err = bc.Shell.Run(ctx, &shell.Command{
		Argv: []string{
			bc.Toolchain.Path(toolchain.ToolBazel),
			"build",
			"--compilation_mode", input.CompilationMode,
			"--define", "framework_shared_object=false",
			input.BazelTarget,
		},
		Dir: bc.SourceDir,
	})
	if err != nil {
		return nil, err
	}

	// Bazel names the library with a version suffix. Link the canonical
	// unversioned name to it so consumers can stay version-agnostic.
	versioned, err := bc.Target.VersionedSharedLibrary(input.LibName, input.LibVersion)
	if err != nil {
		return nil, err
	}
	unversioned, err := bc.Target.SharedLibrary(input.LibName)
	if err != nil {
		return nil, err
	}

	libDir := filepath.Join(bc.SourceDir, "bazel-bin", bazelPackageDir(input.BazelTarget))
	libPath := filepath.Join(libDir, unversioned)
	logger.Info("Linking unversioned library name.", "link", libPath, "target", versioned)
	if err := fsutil.ReplaceSymlink(filepath.Join(libDir, versioned), libPath); err != nil {
		return nil, err
	}

	return &Output{
		LibDir:     libDir,
		LibPath:    libPath,
		IncludeDir: bc.SourceDir,
	}, nil
}

// bazelPackageDir maps a bazel label to its output directory under
// bazel-bin, e.g. "//lib:mlrt" becomes "lib".
func bazelPackageDir(label string) string {
	pkg := strings.TrimPrefix(label, "//")
	if i := strings.IndexByte(pkg, ':'); i >= 0 {
		pkg = pkg[:i]
	}
	return filepath.FromSlash(pkg)
}

// Register registers the adapter's handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("OnBuildMLRuntime", &registry.RegisteredHandler{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Fn:        OnBuildMLRuntime,
	})
}
