// Package renderer converts markdown to HTML with syntax highlighting and heading anchors.
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/anchor"
)

// DefaultStyle is the chroma style whose CSS ships with the exported site.
const DefaultStyle = "github"

// Options tune the markdown engine.
type Options struct {
	// Style names the chroma style used for fenced code blocks.
	Style string
	// Anchors appends a permalink anchor to every heading.
	Anchors bool
}

// Service renders markdown into HTML. It holds no per-document state and can be reused
// across pages.
type Service struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewService constructs a markdown renderer with:
//   - GitHub-flavored markdown extensions (tables, strikethrough, task lists, autolinks)
//   - class-based syntax highlighting for fenced code blocks
//   - optional heading anchors
//   - raw HTML passed through unescaped
//
// If logger is nil, the default slog logger is used.
func NewService(logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}

	extensions := []goldmark.Extender{
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle(opts.Style),
			highlighting.WithFormatOptions(
				html.WithLineNumbers(false),
				html.WithClasses(true),
			),
		),
	}
	if opts.Anchors {
		extensions = append(extensions, &anchor.Extender{
			Position: anchor.After,
		})
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// Pages may embed raw HTML; it must reach the output untouched.
			htmlrenderer.WithUnsafe(),
			htmlrenderer.WithXHTML(),
		),
	)

	return &Service{
		md:     md,
		logger: logger.With("component", "renderer"),
	}
}

// Render converts markdown content to an HTML fragment.
func (s *Service) Render(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	buf := bytes.NewBuffer(make([]byte, 0, len(content)*2))
	if err := s.md.Convert(content, buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	s.logger.Debug("rendered markdown", slog.Int("bytes_in", len(content)), slog.Int("bytes_out", buf.Len()))
	return buf.String(), nil
}
