// Package source lists and loads markdown pages from a flat pages directory.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const markdownExt = ".md"

var (
	// ErrDirectoryNotFound is returned when the pages directory is missing or not a directory.
	ErrDirectoryNotFound = errors.New("pages directory not found")
	// ErrReadFailure is returned when a page exists but cannot be read.
	ErrReadFailure = errors.New("read page failed")
)

// Page is one markdown source file. Content is read once and never modified.
type Page struct {
	// Filename is the directory entry name, including the .md extension.
	Filename string
	// Name is the filename stem and doubles as the page identity.
	Name    string
	Content string
}

// OutputName returns the HTML filename rendered for the page.
func (p Page) OutputName() string {
	return HTMLName(p.Name)
}

// HTMLName maps a page name to its rendered filename.
func HTMLName(name string) string {
	return name + ".html"
}

// PageName strips the extension from a source filename.
func PageName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// Scan returns the markdown files directly inside dir in directory-listing order.
// Subdirectories and files without the .md extension are skipped.
func Scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("stat pages dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != markdownExt {
			continue
		}
		regular, err := isRegular(dir, entry)
		if err != nil {
			return nil, err
		}
		if !regular {
			continue
		}
		files = append(files, entry.Name())
	}
	return files, nil
}

// isRegular reports whether entry is a regular file, following symlinks.
func isRegular(dir string, entry fs.DirEntry) (bool, error) {
	if entry.Type().IsRegular() {
		return true, nil
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// dangling link
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", entry.Name(), err)
	}
	return info.Mode().IsRegular(), nil
}

// Load reads filename from dir.
func Load(dir, filename string) (Page, error) {
	raw, err := os.ReadFile(filepath.Join(dir, filename)) //nolint:gosec // filename comes from Scan
	if err != nil {
		return Page{}, fmt.Errorf("%w: %s: %w", ErrReadFailure, filename, err)
	}
	return Page{
		Filename: filename,
		Name:     PageName(filename),
		Content:  string(raw),
	}, nil
}
