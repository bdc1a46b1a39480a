package type_system_test

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buildrig/buildrig/internal/product"
	"github.com/buildrig/buildrig/internal/registry"
	"github.com/buildrig/buildrig/internal/testutil"
)

type tunedInput struct {
	Mode string `rig:"mode"`
	Jobs int    `rig:"jobs"`
}

// tunedCapture records the decoded input of every "tuned" product build.
type tunedCapture struct {
	mu     sync.Mutex
	inputs []tunedInput
}

func (c *tunedCapture) module() *testutil.SimpleModule {
	return &testutil.SimpleModule{
		Handlers: map[string]*registry.RegisteredHandler{
			"OnBuildTuned": {
				NewInput:  func() any { return new(tunedInput) },
				InputType: reflect.TypeOf(tunedInput{}),
				Fn: func(ctx context.Context, bc *product.BuildContext, input *tunedInput) (any, error) {
					c.mu.Lock()
					c.inputs = append(c.inputs, *input)
					c.mu.Unlock()
					return nil, nil
				},
			},
		},
	}
}

const tunedManifestHCL = `
	adapter "tuned" {
		source_name = "tuned"
		lifecycle { build = "OnBuildTuned" }
		input "mode" {
			type    = string
			default = "fast"
		}
		input "jobs" {
			type    = number
			default = 1
		}
	}
`

// TestTypeSystem_DefaultsApplyWhenArgumentsOmitted validates that manifest
// defaults populate the handler's input struct for omitted arguments.
func TestTypeSystem_DefaultsApplyWhenArgumentsOmitted(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"products/tuned/manifest.hcl": tunedManifestHCL,
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}

			product "tuned" "stock" {
				arguments {}
			}
		`,
	}
	capture := &tunedCapture{}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, capture.module())

	// --- Assert ---
	require.NoError(t, result.Err, "app.Run() returned an unexpected error")

	capture.mu.Lock()
	defer capture.mu.Unlock()
	require.Len(t, capture.inputs, 1)
	require.Equal(t, tunedInput{Mode: "fast", Jobs: 1}, capture.inputs[0])
}

// TestTypeSystem_ArgumentsOverrideDefaults validates that an explicit
// argument wins over the manifest default.
func TestTypeSystem_ArgumentsOverrideDefaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"products/tuned/manifest.hcl": tunedManifestHCL,
		"workspace.hcl": `
			workspace {
				source_root = "%ROOT%/src"
				build_root  = "%ROOT%/build"
			}

			product "tuned" "custom" {
				arguments {
					mode = "debug"
					jobs = 8
				}
			}
		`,
	}
	capture := &tunedCapture{}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, capture.module())

	// --- Assert ---
	require.NoError(t, result.Err, "app.Run() returned an unexpected error")

	capture.mu.Lock()
	defer capture.mu.Unlock()
	require.Len(t, capture.inputs, 1)
	require.Equal(t, tunedInput{Mode: "debug", Jobs: 8}, capture.inputs[0])
}
