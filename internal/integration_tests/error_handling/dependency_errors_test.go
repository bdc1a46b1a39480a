package error_handling_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buildrig/buildrig/internal/product"
	"github.com/buildrig/buildrig/internal/registry"
	"github.com/buildrig/buildrig/internal/testutil"
)

const noopManifestHCL = `
	adapter "noop" {
		source_name = "noop"
		lifecycle { build = "NoOp" }
	}
`

// Graph construction failures are run errors, not startup panics: the
// configuration is well-formed, it just describes an impossible build.

func TestErrorHandling_DependencyCycleIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"products/noop/manifest.hcl": noopManifestHCL,
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}

			product "noop" "a" {
				depends_on = ["noop.b"]
				arguments {}
			}

			product "noop" "b" {
				depends_on = ["noop.a"]
				arguments {}
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "failed to build dependency graph")
	require.Contains(t, result.Err.Error(), "cycle detected involving")
}

func TestErrorHandling_UnknownExplicitDependency(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"products/noop/manifest.hcl": noopManifestHCL,
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}

			product "noop" "a" {
				depends_on = ["noop.phantom"]
				arguments {}
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "depends on non-existent identifier 'noop.phantom'")
}

func TestErrorHandling_SelfDependencyIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"products/noop/manifest.hcl": noopManifestHCL,
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}

			product "noop" "ouroboros" {
				depends_on = ["noop.ouroboros"]
				arguments {}
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "'product.noop.ouroboros' depends on itself")
}

func TestErrorHandling_UndeclaredOutputReference(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	manifestsHCL := `
		adapter "producer" {
			source_name = "producer"
			lifecycle { build = "NoOp" }
			output "lib_path" { type = string }
		}

		adapter "consumer" {
			source_name = "consumer"
			lifecycle { build = "OnBuildConsumer" }
			input "lib" { type = string }
		}
	`
	files := map[string]string{
		"products/manifests.hcl": manifestsHCL,
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}

			product "producer" "base" {
				arguments {}
			}

			product "consumer" "api" {
				arguments {
					lib = product.producer.base.header_dir
				}
			}
		`,
	}

	type consumerInput struct {
		Lib string `rig:"lib"`
	}
	consumerModule := &testutil.SimpleModule{
		Handlers: map[string]*registry.RegisteredHandler{
			"OnBuildConsumer": {
				NewInput:  func() any { return new(consumerInput) },
				InputType: reflect.TypeOf(consumerInput{}),
				Fn: func(ctx context.Context, bc *product.BuildContext, input *consumerInput) (any, error) {
					return nil, nil
				},
			},
		},
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &testutil.NoOpModule{}, consumerModule)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), `reference to undeclared output "header_dir"`)
}
