package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// hasEntries reports whether dir exists and is not empty.
func hasEntries(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading %s: %w", dir, err)
	}
	return len(entries) > 0, nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

// resetDir removes dir when clean is set and makes sure it exists.
func resetDir(dir string, clean bool) error {
	if clean {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("error cleaning %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating %s: %w", dir, err)
	}
	return nil
}
