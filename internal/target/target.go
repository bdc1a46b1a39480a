// Package target models the host platforms a workspace can build for and
// owns the platform-specific naming of shared libraries.
package target

import (
	"fmt"
	"runtime"
	"strings"
)

// Supported operating system tags.
const (
	OSMacOSX = "macosx"
	OSLinux  = "linux"
)

// Target identifies a build platform as an OS tag plus an architecture,
// e.g. "macosx-x86_64" or "linux-aarch64".
type Target struct {
	OS   string
	Arch string
}

// Parse validates a target tag of the form "<os>" or "<os>-<arch>".
// An OS outside the supported set is a configuration error.
func Parse(tag string) (Target, error) {
	if tag == "" {
		return Target{}, fmt.Errorf("host target cannot be empty")
	}

	os, arch, _ := strings.Cut(tag, "-")
	switch os {
	case OSMacOSX, OSLinux:
		return Target{OS: os, Arch: arch}, nil
	default:
		return Target{}, fmt.Errorf("unknown host target %q", tag)
	}
}

// Host derives the target for the machine the process is running on.
func Host() (Target, error) {
	var os string
	switch runtime.GOOS {
	case "darwin":
		os = OSMacOSX
	case "linux":
		os = OSLinux
	default:
		return Target{}, fmt.Errorf("unsupported host OS %q", runtime.GOOS)
	}

	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	}

	return Target{OS: os, Arch: arch}, nil
}

// String reassembles the canonical tag.
func (t Target) String() string {
	if t.Arch == "" {
		return t.OS
	}
	return t.OS + "-" + t.Arch
}

// SharedLibrary returns the unversioned shared library filename for base,
// e.g. "libmlrt.dylib" on macosx and "libmlrt.so" on linux.
func (t Target) SharedLibrary(base string) (string, error) {
	switch t.OS {
	case OSMacOSX:
		return "lib" + base + ".dylib", nil
	case OSLinux:
		return "lib" + base + ".so", nil
	default:
		return "", fmt.Errorf("unknown host target %q", t.String())
	}
}

// VersionedSharedLibrary returns the version-suffixed filename build tools
// emit for base. The version sits before the extension on macosx
// ("libmlrt.2.1.0.dylib") and after it on linux ("libmlrt.so.2.1.0").
func (t Target) VersionedSharedLibrary(base, version string) (string, error) {
	switch t.OS {
	case OSMacOSX:
		return fmt.Sprintf("lib%s.%s.dylib", base, version), nil
	case OSLinux:
		return fmt.Sprintf("lib%s.so.%s", base, version), nil
	default:
		return "", fmt.Errorf("unknown host target %q", t.String())
	}
}
