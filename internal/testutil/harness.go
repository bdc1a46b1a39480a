package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buildrig/buildrig/internal/app"
	"github.com/buildrig/buildrig/internal/hcl"
	"github.com/buildrig/buildrig/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App

	// WorkspaceDir is the temporary root the configuration files were
	// written to, for tests that inspect filesystem side effects.
	WorkspaceDir string
}

// RunIntegrationTest provides a standardized harness for running integration
// tests using a default background context and execution settings.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithConfig(context.Background(), t, files, app.Config{}, modules...)
}

// RunIntegrationTestWithConfig runs the harness with caller-controlled
// execution settings (dry run, host target, healthcheck port). The workspace
// and products paths always point at the files written by the harness.
func RunIntegrationTestWithConfig(ctx context.Context, t *testing.T, files map[string]string, base app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir, err := os.MkdirTemp("", ".tmp-integration-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	// 2. Write all configuration files. The test provides relative paths
	//    (e.g. "products/x/manifest.hcl"), which creates the subdirectory
	//    structure within the root tmpDir. The %ROOT% token expands to
	//    tmpDir so workspace blocks can name absolute paths under it.
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		content = strings.ReplaceAll(content, "%ROOT%", tmpDir)
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// 3. Configure the app against the temporary directory. The loader
	//    discovers every .hcl file under it, mirroring production layout.
	appConfig := &app.Config{
		WorkspacePath:   tmpDir,
		ProductsPath:    filepath.Join(tmpDir, "products"),
		HostTarget:      base.HostTarget,
		DryRun:          base.DryRun,
		HealthcheckPort: base.HealthcheckPort,
		LogFormat:       "text",
		LogLevel:        "debug",
	}

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("RIG_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput:    logBuffer.String(),
			Err:          fmt.Errorf("application startup panicked | %v", panicErr),
			App:          nil,
			WorkspaceDir: tmpDir,
		}
	}

	runErr := testApp.Run(ctx, appConfig)
	t.Cleanup(func() { testApp.Close() })

	if os.Getenv("RIG_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput:    logBuffer.String(),
		Err:          runErr,
		App:          testApp,
		WorkspaceDir: tmpDir,
	}
}
