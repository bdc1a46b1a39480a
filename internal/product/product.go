// Package product defines the execution context handed to adapter phase
// handlers.
package product

import (
	"path/filepath"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/shell"
	"github.com/buildrig/buildrig/internal/target"
	"github.com/buildrig/buildrig/internal/toolchain"
)

// Environment is the run-wide state shared by every product: the
// workspace layout, the resolved toolchain, the host target, and the
// shell commands are run through.
type Environment struct {
	Workspace *config.Workspace
	Toolchain *toolchain.Toolchain
	Target    target.Target
	Shell     shell.Runner
}

// BuildContext carries everything a phase handler needs to drive the
// external tools for one product. A fresh context is assembled per node
// and phase; handlers must not retain it.
type BuildContext struct {
	// Workspace is the directory layout of the current run.
	Workspace *config.Workspace
	// Toolchain resolves tool names to executable paths.
	Toolchain *toolchain.Toolchain
	// Target is the platform being built for.
	Target target.Target
	// Shell runs external commands.
	Shell shell.Runner

	// SourceDir is the product's checkout under the workspace source root.
	SourceDir string
	// BuildDir is the product's out-of-tree build directory. It exists by
	// the time a handler runs. Adapters that build in-tree may ignore it.
	BuildDir string
}

// InstallRoot returns the directory install artifacts land under,
// combining the workspace's destdir with its prefix.
func (bc *BuildContext) InstallRoot() string {
	return filepath.Join(bc.Workspace.InstallDestDir, bc.Workspace.InstallPrefix)
}
