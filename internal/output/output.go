// Package output writes generated artifacts into the site output directory.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrWriteFailure is returned when an artifact cannot be written.
	ErrWriteFailure = errors.New("write output failed")
	// ErrPathEscapes is returned for destinations outside the output root.
	ErrPathEscapes = errors.New("path escapes output root")
)

// Dir is an output directory. All paths given to its methods are relative to the root.
type Dir struct {
	root string // absolute
}

// Prepare resolves root, optionally wipes it, and creates it if absent.
func Prepare(root string, clean bool) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve output: %w", err)
	}
	if clean {
		if err := os.RemoveAll(abs); err != nil {
			return nil, fmt.Errorf("%w: clean output: %w", ErrWriteFailure, err)
		}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil { //nolint:gosec // standard directory permissions
		return nil, fmt.Errorf("%w: create output dir: %w", ErrWriteFailure, err)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute output directory.
func (d *Dir) Root() string {
	return d.root
}

// safePath resolves rel against the root and rejects anything that leaves it.
func (d *Dir) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == "." || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	abs := filepath.Join(d.root, cleaned)
	if !strings.HasPrefix(abs, d.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	return abs, nil
}

// Write atomically replaces rel with data: temp file, fsync, rename.
func (d *Dir) Write(rel string, data []byte) error {
	abs, err := d.safePath(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // standard directory permissions
		return fmt.Errorf("%w: mkdir %s: %w", ErrWriteFailure, rel, err)
	}

	tmp, err := os.CreateTemp(dir, ".wikigen-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %w", ErrWriteFailure, rel, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrWriteFailure, rel, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync %s: %w", ErrWriteFailure, rel, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrWriteFailure, rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWriteFailure, rel, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrWriteFailure, rel, err)
	}
	success = true
	return nil
}

// Read returns the content of rel. A missing file is reported with fs.ErrNotExist.
func (d *Dir) Read(rel string) ([]byte, error) {
	abs, err := d.safePath(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs) //nolint:gosec // abs is validated against root
}

// Remove deletes rel. Removing a missing file is not an error.
func (d *Dir) Remove(rel string) error {
	abs, err := d.safePath(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %w", ErrWriteFailure, rel, err)
	}
	return nil
}

// CopyFS copies every regular file of src into the output directory under prefix.
func (d *Dir) CopyFS(src fs.FS, prefix string) ([]string, error) {
	var written []string
	err := fs.WalkDir(src, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		rel := path
		if prefix != "" {
			rel = prefix + "/" + path
		}
		if err := d.Write(rel, data); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("copy assets: %w", err)
	}
	return written, nil
}
