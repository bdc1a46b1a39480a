// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		rawID        string
		expectErr    bool
		expectedAddr *Address
	}{
		{
			name:      "product path",
			rawID:     "product.ml_runtime.main",
			expectErr: false,
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("product"), NewPathSegment("ml_runtime"), NewPathSegment("main")},
			},
		},
		{
			name:      "path with indices",
			rawID:     "pool.workers[0].slots[15]",
			expectErr: false,
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("pool"), NewPathSegmentWithIndex("workers", 0), NewPathSegmentWithIndex("slots", 15)},
			},
		},
		{
			name:      "zero index",
			rawID:     "product.ml_bindings[0]",
			expectErr: false,
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("product"), NewPathSegmentWithIndex("ml_bindings", 0)},
			},
		},
		{
			name:      "error - empty path segment",
			rawID:     "product..main",
			expectErr: true,
		},
		{
			name:      "error - invalid index format",
			rawID:     "product.main[x]",
			expectErr: true,
		},
		{
			name:      "error - empty string",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - invalid segment name hyphen",
			rawID:     "product.-.main",
			expectErr: true,
		},
		{
			name:      "error - invalid segment name just hyphen",
			rawID:     "-",
			expectErr: true,
		},
		{
			name:      "error - just dot",
			rawID:     ".",
			expectErr: true,
		},
		{
			name:      "error - just double dot",
			rawID:     "..",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.rawID)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, addr)
			assert.True(t, tc.expectedAddr.Equal(addr), "Parsed address does not match expected address")
		})
	}
}
