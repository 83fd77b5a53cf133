package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscapes  = errors.New("path escapes store directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
	ErrNestedPath   = errors.New("store files must live directly in the store directory")
)

// tmpSuffix marks files that are being written and not yet renamed into place.
const tmpSuffix = ".tmp"

// StoreDir provides file operations confined to the store directory
// using the os.Root API. Store artifacts are flat names; nested paths are rejected.
type StoreDir struct {
	root *os.Root
	path string
}

// New opens the store directory at the given path.
// The directory must already exist.
func New(dirPath string) (*StoreDir, error) {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store directory: %w", err)
	}

	return &StoreDir{
		root: root,
		path: absPath,
	}, nil
}

// Close releases resources held by the StoreDir.
func (d *StoreDir) Close() error {
	if d.root != nil {
		return d.root.Close()
	}
	return nil
}

// Path returns the absolute path of the store directory.
func (d *StoreDir) Path() string {
	return d.path
}

// ValidateName validates a store file name. It rejects:
// - Empty names
// - Absolute paths
// - Names that escape the directory (using ..)
// - Names containing a directory component
func (d *StoreDir) ValidateName(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyPath
	}

	if !filepath.IsLocal(name) {
		if filepath.IsAbs(name) {
			return "", fmt.Errorf("%w: %s", ErrAbsolutePath, name)
		}
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}

	clean := filepath.Clean(name)
	if clean == "." {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(filepath.ToSlash(clean), '/') {
		return "", fmt.Errorf("%w: %s", ErrNestedPath, name)
	}

	return clean, nil
}

// Abs returns the absolute path of a validated store file.
// Used for libraries that need a real filesystem path.
func (d *StoreDir) Abs(name string) (string, error) {
	clean, err := d.ValidateName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.path, clean), nil
}

// ReadFile reads a store file.
func (d *StoreDir) ReadFile(name string) ([]byte, error) {
	clean, err := d.ValidateName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	return d.root.ReadFile(clean)
}

// Stat returns file info for a store file.
func (d *StoreDir) Stat(name string) (os.FileInfo, error) {
	clean, err := d.ValidateName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	return d.root.Stat(clean)
}

// Exists reports whether a store file exists.
func (d *StoreDir) Exists(name string) (bool, error) {
	_, err := d.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteTemp writes data to a temporary sibling of name and syncs it to disk.
// The returned temporary name must be passed to Commit or Discard.
func (d *StoreDir) WriteTemp(name string, data []byte, perm os.FileMode) (string, error) {
	clean, err := d.ValidateName(name)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	tmp := clean + tmpSuffix

	f, err := d.root.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		d.root.Remove(tmp)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		d.root.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		d.root.Remove(tmp)
		return "", err
	}
	return tmp, nil
}

// Commit atomically renames a temporary file written by WriteTemp over name.
func (d *StoreDir) Commit(tmp, name string) error {
	clean, err := d.ValidateName(name)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if tmp != clean+tmpSuffix {
		return fmt.Errorf("%s is not a temporary file for %s", tmp, clean)
	}
	return d.root.Rename(tmp, clean)
}

// Discard removes a temporary file written by WriteTemp.
func (d *StoreDir) Discard(tmp string) {
	if strings.HasSuffix(tmp, tmpSuffix) {
		d.root.Remove(tmp)
	}
}
