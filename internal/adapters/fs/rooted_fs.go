package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RootedFS writes files confined to a single root directory. Paths are
// cleaned and rejected if they would escape the root, so descriptor
// filenames cannot clobber files outside the build output.
type RootedFS struct {
	root string
}

func NewRootedFS(root string) *RootedFS {
	return &RootedFS{root: filepath.Clean(root)}
}

func (f *RootedFS) Root() string {
	return f.root
}

func (f *RootedFS) resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute path not allowed: %s", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes output root: %s", path)
	}
	return filepath.Join(f.root, cleaned), nil
}

func (f *RootedFS) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, perm)
}

func (f *RootedFS) ReadFile(path string) ([]byte, error) {
	full, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (f *RootedFS) FileExists(path string) bool {
	full, err := f.resolve(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}
