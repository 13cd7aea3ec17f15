// Package filex resolves the client's on-disk locations.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if needed and returns its absolute
// path. Relative paths are resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// FileInfo is what the client needs to announce an attachment upload.
type FileInfo struct {
	Name string
	Size int64
}

// Stat returns the base name and size of a regular file.
func Stat(path string) (FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	if fi.IsDir() {
		return FileInfo{}, fmt.Errorf("%s is a directory", path)
	}
	return FileInfo{Name: filepath.Base(path), Size: fi.Size()}, nil
}
