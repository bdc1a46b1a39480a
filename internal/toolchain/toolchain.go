// Package toolchain resolves the external build tools a run depends on.
// Explicit workspace overrides always win; otherwise tools are found on
// PATH, with the compiler additionally falling back to a toolchain
// installed under the workspace's install destination.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/buildrig/buildrig/internal/ctxlog"
)

// Tool names accepted in adapter manifests and workspace overrides.
const (
	ToolCC    = "cc"
	ToolCMake = "cmake"
	ToolNinja = "ninja"
	ToolBazel = "bazel"
	ToolGit   = "git"
)

// Overrides carries explicit tool paths from the workspace configuration.
// Empty fields mean "resolve automatically".
type Overrides struct {
	CC    string
	CMake string
	Ninja string
	Bazel string
	Git   string
}

// Toolchain holds the resolved path of every known tool. A tool that could
// not be found resolves to "" and only becomes an error when some enabled
// product requires it.
type Toolchain struct {
	paths map[string]string
}

// Resolve builds a Toolchain. installedBin, when non-empty, names the bin
// directory of a previously installed toolchain; a compiler found there is
// preferred over the one on PATH.
func Resolve(ctx context.Context, overrides Overrides, installedBin string) *Toolchain {
	logger := ctxlog.FromContext(ctx)

	tc := &Toolchain{paths: map[string]string{
		ToolCC:    resolveOne(overrides.CC, ToolCC),
		ToolCMake: resolveOne(overrides.CMake, ToolCMake),
		ToolNinja: resolveOne(overrides.Ninja, ToolNinja),
		ToolBazel: resolveOne(overrides.Bazel, ToolBazel),
		ToolGit:   resolveOne(overrides.Git, ToolGit),
	}}

	if overrides.CC == "" && installedBin != "" {
		installed := filepath.Join(installedBin, "cc")
		if info, err := os.Stat(installed); err == nil && !info.IsDir() {
			tc.paths[ToolCC] = installed
		}
	}

	for _, name := range knownTools() {
		logger.Debug("Resolved tool.", "tool", name, "path", tc.paths[name])
	}
	return tc
}

func resolveOne(override, name string) string {
	if override != "" {
		return override
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

func knownTools() []string {
	names := []string{ToolCC, ToolCMake, ToolNinja, ToolBazel, ToolGit}
	sort.Strings(names)
	return names
}

// Path returns the resolved path of the named tool, or "" when the tool is
// unknown or was not found.
func (tc *Toolchain) Path(name string) string {
	return tc.paths[name]
}

// Require verifies that every named tool resolved to a path. It returns a
// single error listing all missing or unknown tools.
func (tc *Toolchain) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		path, known := tc.paths[name]
		switch {
		case !known:
			missing = append(missing, fmt.Sprintf("%s (not a known tool)", name))
		case path == "":
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools unavailable: %s", strings.Join(missing, ", "))
	}
	return nil
}
