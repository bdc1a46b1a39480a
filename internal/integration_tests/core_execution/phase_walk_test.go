package core_execution_test

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

// phaseRecorder registers one handler per lifecycle phase and records the
// order they were invoked in.
type phaseRecorder struct {
	mu     sync.Mutex
	phases []string
}

func (rec *phaseRecorder) record(phase string) {
	rec.mu.Lock()
	rec.phases = append(rec.phases, phase)
	rec.mu.Unlock()
}

func (rec *phaseRecorder) recorded() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]string(nil), rec.phases...)
}

func (rec *phaseRecorder) module() *testutil.SimpleModule {
	newInput := func() any { return new(struct{}) }
	inputType := reflect.TypeOf(struct{}{})
	handlerFor := func(phase string) *registry.RegisteredHandler {
		return &registry.RegisteredHandler{
			NewInput:  newInput,
			InputType: inputType,
			Fn: func(ctx context.Context, bc *product.BuildContext, input *struct{}) (any, error) {
				rec.record(phase)
				return nil, nil
			},
		}
	}
	return &testutil.SimpleModule{
		Handlers: map[string]*registry.RegisteredHandler{
			"OnBuildStaged":   handlerFor("build"),
			"OnTestStaged":    handlerFor("test"),
			"OnInstallStaged": handlerFor("install"),
		},
	}
}

const stagedManifestHCL = `
	adapter "staged" {
		source_name = "staged"
		lifecycle {
			build   = "OnBuildStaged"
			test    = "OnTestStaged"
			install = "OnInstallStaged"
		}
	}
`

// TestCoreExecution_PhasesRunInWalkOrder validates that a product opted
// into all three phases runs them strictly as build, test, install.
func TestCoreExecution_PhasesRunInWalkOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workspaceHCL := `
		workspace {
			source_root = "%ROOT%/src"
			build_root  = "%ROOT%/build"
		}

		product "staged" "all" {
			test    = true
			install = true
			arguments {}
		}
	`
	files := map[string]string{
		"products/staged/manifest.hcl": stagedManifestHCL,
		"workspace.hcl":                workspaceHCL,
	}
	rec := &phaseRecorder{}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, rec.module())

	// --- Assert ---
	require.NoError(t, result.Err, "app.Run() returned an unexpected error")
	require.Equal(t, []string{"build", "test", "install"}, rec.recorded())
	testutil.AssertPhaseFinished(t, result, "staged", "all", "install")
}

// TestCoreExecution_TestAndInstallAreOptIn validates the phase defaults: a
// product with a bare arguments block builds but never tests or installs.
func TestCoreExecution_TestAndInstallAreOptIn(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workspaceHCL := `
		workspace {
			source_root = "%ROOT%/src"
			build_root  = "%ROOT%/build"
		}

		product "staged" "defaults" {
			arguments {}
		}
	`
	files := map[string]string{
		"products/staged/manifest.hcl": stagedManifestHCL,
		"workspace.hcl":                workspaceHCL,
	}
	rec := &phaseRecorder{}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, rec.module())

	// --- Assert ---
	require.NoError(t, result.Err, "app.Run() returned an unexpected error")
	require.Equal(t, []string{"build"}, rec.recorded())
}

// TestCoreExecution_BuildCanBeDisabled validates that `build = false`
// skips the build phase while explicitly requested phases still run.
func TestCoreExecution_BuildCanBeDisabled(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workspaceHCL := `
		workspace {
			source_root = "%ROOT%/src"
			build_root  = "%ROOT%/build"
		}

		product "staged" "installonly" {
			build   = false
			install = true
			arguments {}
		}
	`
	files := map[string]string{
		"products/staged/manifest.hcl": stagedManifestHCL,
		"workspace.hcl":                workspaceHCL,
	}
	rec := &phaseRecorder{}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, rec.module())

	// --- Assert ---
	require.NoError(t, result.Err, "app.Run() returned an unexpected error")
	require.Equal(t, []string{"install"}, rec.recorded())
	require.Contains(t, result.LogOutput, "Phase disabled for product, skipping.")
}
