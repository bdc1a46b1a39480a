package error_handling_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buildrig/buildrig/internal/testutil"
)

// Startup failures surface as panics inside app.NewApp, which the harness
// converts into an error the same way cmd/buildrig does.

func TestErrorHandling_UnknownAdapterTypeFailsStartup(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}

			product "mystery" "box" {
				arguments {}
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked |")
	require.Contains(t, result.Err.Error(), `unknown adapter type "mystery" for product "box"`)
}

func TestErrorHandling_InvalidHCLIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked |")
	require.Contains(t, result.Err.Error(), "failed to parse HCL file")
}

func TestErrorHandling_MissingWorkspaceBlockIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
			product "anything" "a" {
				arguments {}
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "no workspace block found")
}

func TestErrorHandling_DuplicateAdapterIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	manifestHCL := `
		adapter "twice" {
			source_name = "twice"
			lifecycle { build = "NoOp" }
		}
	`
	files := map[string]string{
		"products/first/manifest.hcl":  manifestHCL,
		"products/second/manifest.hcl": manifestHCL,
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), `duplicate adapter "twice"`)
}

func TestErrorHandling_DuplicateProductIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	manifestHCL := `
		adapter "noop" {
			source_name = "noop"
			lifecycle { build = "NoOp" }
		}
	`
	files := map[string]string{
		"products/noop/manifest.hcl": manifestHCL,
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}

			product "noop" "main" {
				arguments {}
			}
		`,
		"extra.hcl": `
			product "noop" "main" {
				arguments {}
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), `duplicate product "noop" "main"`)
}

func TestErrorHandling_SecondWorkspaceBlockIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workspaceHCL := `
		workspace {
			source_root = "%ROOT%/src"
			build_root  = "%ROOT%/build"
		}
	`
	files := map[string]string{
		"workspace.hcl": workspaceHCL,
		"extra.hcl":     workspaceHCL,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "second workspace block found")
	require.Contains(t, result.Err.Error(), "exactly one workspace is allowed per run")
}
