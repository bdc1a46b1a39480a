package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertPhaseFinished checks the log output within a HarnessResult to
// confirm that one phase of one product completed. It abstracts the
// underlying node ID format, making tests more resilient to internal
// refactoring.
func AssertPhaseFinished(t *testing.T, result *HarnessResult, adapterType, name, phase string) {
	t.Helper()

	expected := fmt.Sprintf(`msg="✅ Finished phase" product=product.%s.%s phase=%s`, adapterType, name, phase)
	require.True(t,
		strings.Contains(result.LogOutput, expected),
		"expected log output for finished %s phase of '%s.%s' was not found in logs", phase, adapterType, name,
	)
}

// AssertLogOrder asserts that the earlier substring appears in the log
// output before the later one.
func AssertLogOrder(t *testing.T, logOutput, earlier, later string) {
	t.Helper()

	earlierIdx := strings.Index(logOutput, earlier)
	laterIdx := strings.Index(logOutput, later)
	require.NotEqual(t, -1, earlierIdx, "expected log %q was not found", earlier)
	require.NotEqual(t, -1, laterIdx, "expected log %q was not found", later)
	require.Less(t, earlierIdx, laterIdx, "log %q should appear before %q", earlier, later)
}
