package fsutil

import (
	"errors"
	"fmt"
	"os"
)

// EnsureDir creates the directory at path, including any missing parents.
// It succeeds when the directory already exists, so concurrent or repeated
// calls for the same path are safe.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating directory %q: %w", path, err)
	}
	return nil
}

// ReplaceSymlink points link at target, replacing any symlink already
// present. A link that disappears between the remove and the create, or one
// recreated concurrently, is tolerated: the remove ignores ErrNotExist and
// an ErrExist from the create triggers one remove-and-retry.
func ReplaceSymlink(target, link string) error {
	if err := os.Remove(link); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale link %q: %w", link, err)
	}

	err := os.Symlink(target, link)
	if errors.Is(err, os.ErrExist) {
		if rmErr := os.Remove(link); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("removing contested link %q: %w", link, rmErr)
		}
		err = os.Symlink(target, link)
	}
	if err != nil {
		return fmt.Errorf("linking %q -> %q: %w", link, target, err)
	}
	return nil
}
