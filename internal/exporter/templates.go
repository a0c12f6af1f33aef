package exporter

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const (
	pageTemplate     = "page"
	explorerTemplate = "explorer"
	tagTemplate      = "tag"
	layoutFile       = "layout.gohtml"
)

// overridable lists the templates a templates directory may replace, one file per name.
var overridable = []string{pageTemplate, explorerTemplate, tagTemplate}

type templateRenderer struct {
	tmpl *template.Template
}

func newTemplateRenderer() (*templateRenderer, error) {
	base, err := template.New("wikigen").ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}
	return &templateRenderer{tmpl: base}, nil
}

// withOverrides returns a renderer where files found in dir replace the embedded templates.
// layout.gohtml may redefine the shared "head", "menu" and "foot" blocks; page.gohtml,
// explorer.gohtml and tag.gohtml hold the body of the template they are named after.
func (r *templateRenderer) withOverrides(dir string) (*templateRenderer, error) {
	set, err := r.tmpl.Clone()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return &templateRenderer{tmpl: set}, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: templates %s", ErrDirectoryNotFound, dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: templates %s is not a directory", ErrDirectoryNotFound, dir)
	}

	raw, ok, err := readOptional(filepath.Join(dir, layoutFile))
	if err != nil {
		return nil, err
	}
	if ok {
		if _, err := set.New(layoutFile).Parse(raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplateFailure, layoutFile, err)
		}
	}

	for _, name := range overridable {
		file := name + ".gohtml"
		raw, ok, err := readOptional(filepath.Join(dir, file))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, err := set.New(name).Parse(raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplateFailure, file, err)
		}
	}
	return &templateRenderer{tmpl: set}, nil
}

func readOptional(path string) (string, bool, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is inside the configured templates dir
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %s: %w", ErrReadFailure, path, err)
	}
	return string(raw), true, nil
}

func (r *templateRenderer) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %w", ErrTemplateFailure, name, err)
	}
	return buf.Bytes(), nil
}
