package toolchain

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildrig/buildrig/internal/ctxlog"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestResolve_OverridesWin(t *testing.T) {
	t.Parallel()

	overrides := Overrides{
		CC:    "/opt/cc",
		CMake: "/opt/cmake",
		Ninja: "/opt/ninja",
		Bazel: "/opt/bazel",
		Git:   "/opt/git",
	}

	tc := Resolve(testContext(), overrides, "")

	assert.Equal(t, "/opt/cc", tc.Path(ToolCC))
	assert.Equal(t, "/opt/cmake", tc.Path(ToolCMake))
	assert.Equal(t, "/opt/ninja", tc.Path(ToolNinja))
	assert.Equal(t, "/opt/bazel", tc.Path(ToolBazel))
	assert.Equal(t, "/opt/git", tc.Path(ToolGit))
}

func TestResolve_InstalledCompilerPreferredOverPath(t *testing.T) {
	t.Parallel()

	bin := t.TempDir()
	installed := filepath.Join(bin, "cc")
	require.NoError(t, os.WriteFile(installed, []byte("#!/bin/sh\n"), 0o755))

	tc := Resolve(testContext(), Overrides{}, bin)

	assert.Equal(t, installed, tc.Path(ToolCC))
}

func TestResolve_OverrideBeatsInstalledCompiler(t *testing.T) {
	t.Parallel()

	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, "cc"), []byte("#!/bin/sh\n"), 0o755))

	tc := Resolve(testContext(), Overrides{CC: "/opt/cc"}, bin)

	assert.Equal(t, "/opt/cc", tc.Path(ToolCC))
}

func TestPath_UnknownToolIsEmpty(t *testing.T) {
	t.Parallel()

	tc := Resolve(testContext(), Overrides{}, "")

	assert.Equal(t, "", tc.Path("fortran"))
}

func TestRequire(t *testing.T) {
	t.Parallel()

	tc := Resolve(testContext(), Overrides{Bazel: "/opt/bazel"}, "")

	assert.NoError(t, tc.Require(ToolBazel))

	err := tc.Require(ToolBazel, "fortran")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fortran (not a known tool)")
}

func TestRequire_ListsEveryMissingTool(t *testing.T) {
	t.Parallel()

	// Build a toolchain where nothing resolved.
	tc := &Toolchain{paths: map[string]string{
		ToolCMake: "",
		ToolNinja: "",
	}}

	err := tc.Require(ToolCMake, ToolNinja)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cmake")
	assert.Contains(t, err.Error(), "ninja")
}
