// Package blobdir addresses a flat folder of files by bare filename.
package blobdir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that would escape the directory.
var ErrInvalidName = errors.New("invalid blob name")

// Directory is a flat folder of blobs. Names never contain path separators.
// Partially written files live in a hidden sibling folder on the same
// filesystem, so nothing serving root ever sees them.
type Directory struct {
	root    string
	staging string
}

// New returns a Directory rooted at root, creating the folder and its staging sibling when missing.
func New(root string) (*Directory, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob directory root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", abs, err)
	}
	staging := filepath.Join(filepath.Dir(abs), "."+filepath.Base(abs)+".staging")
	if err := os.MkdirAll(staging, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create staging directory %s: %w", staging, err)
	}
	return &Directory{root: abs, staging: staging}, nil
}

// Root returns the absolute directory path.
func (d *Directory) Root() string {
	return d.root
}

// Path returns the absolute path for name.
func (d *Directory) Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(d.root, name), nil
}

// Create streams r into a new file called name and returns the number of bytes written.
// The file must not exist yet. When limit is non-negative at most limit+1 bytes are
// copied, so a result above limit tells the caller the payload was too large.
// A failed copy removes the partial file.
func (d *Directory) Create(name string, r io.Reader, limit int64) (int64, error) {
	path, err := d.Path(name)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}

	src := r
	if limit >= 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(f, src)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return n, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return n, err
	}
	return n, nil
}

// ReadFile returns the content of name.
func (d *Directory) ReadFile(name string) ([]byte, error) {
	path, err := d.Path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Replace overwrites name with data through a staged temp file and rename.
func (d *Directory) Replace(name string, data []byte) error {
	path, err := d.Path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.staging, name+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Remove deletes name. A missing file is not an error.
func (d *Directory) Remove(name string) error {
	path, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether name is a regular file in the directory.
func (d *Directory) Exists(name string) bool {
	path, err := d.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
