package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		tag       string
		expectErr bool
		expected  Target
	}{
		{
			name:     "macosx with arch",
			tag:      "macosx-x86_64",
			expected: Target{OS: "macosx", Arch: "x86_64"},
		},
		{
			name:     "linux with arch",
			tag:      "linux-aarch64",
			expected: Target{OS: "linux", Arch: "aarch64"},
		},
		{
			name:     "bare os tag",
			tag:      "linux",
			expected: Target{OS: "linux"},
		},
		{
			name:      "error - unknown os",
			tag:       "windows-x86_64",
			expectErr: true,
		},
		{
			name:      "error - empty tag",
			tag:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.tag)

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestString_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"macosx-x86_64", "linux-aarch64", "linux"} {
		parsed, err := Parse(tag)
		require.NoError(t, err)
		assert.Equal(t, tag, parsed.String())
	}
}

func TestSharedLibrary(t *testing.T) {
	t.Parallel()

	mac := Target{OS: OSMacOSX, Arch: "x86_64"}
	linux := Target{OS: OSLinux, Arch: "x86_64"}

	name, err := mac.SharedLibrary("mlrt")
	require.NoError(t, err)
	assert.Equal(t, "libmlrt.dylib", name)

	name, err = linux.SharedLibrary("mlrt")
	require.NoError(t, err)
	assert.Equal(t, "libmlrt.so", name)

	_, err = Target{OS: "plan9"}.SharedLibrary("mlrt")
	assert.Error(t, err)
}

func TestVersionedSharedLibrary(t *testing.T) {
	t.Parallel()

	mac := Target{OS: OSMacOSX}
	linux := Target{OS: OSLinux}

	name, err := mac.VersionedSharedLibrary("mlrt", "2.1.0")
	require.NoError(t, err)
	assert.Equal(t, "libmlrt.2.1.0.dylib", name, "version precedes the extension on macosx")

	name, err = linux.VersionedSharedLibrary("mlrt", "2.1.0")
	require.NoError(t, err)
	assert.Equal(t, "libmlrt.so.2.1.0", name, "version follows the extension on linux")

	_, err = Target{OS: "plan9"}.VersionedSharedLibrary("mlrt", "2.1.0")
	assert.Error(t, err)
}

func TestHost(t *testing.T) {
	t.Parallel()

	host, err := Host()
	require.NoError(t, err)
	assert.Contains(t, []string{OSMacOSX, OSLinux}, host.OS)
	assert.NotEmpty(t, host.Arch)
}
