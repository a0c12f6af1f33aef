package exporter

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/euforicio/wikigen/internal/source"
	"github.com/euforicio/wikigen/internal/tags"
	"github.com/euforicio/wikigen/internal/wikilink"
)

// RenderedPage is the HTML produced for one source page.
type RenderedPage struct {
	Name   string
	Output string
	HTML   []byte
}

type link struct {
	Name string
	URL  string
}

// fileLink links to an output file by name. The name is escaped so that characters
// such as '#' or '?' stay part of the path.
func fileLink(name, file string) link {
	return link{Name: name, URL: url.PathEscape(file)}
}

type pageView struct {
	Site    string
	Title   string
	Content template.HTML
	Tags    []link
}

type explorerView struct {
	Site  string
	Title string
	Files []link
}

type tagView struct {
	Site  string
	Title string
	Pages []link
}

// pageTags extracts the tags of page and drops those that cannot name a tag page.
func (b *build) pageTags(page source.Page) []string {
	extracted := tags.Extract(page.Content)
	kept := extracted[:0]
	for _, tag := range extracted {
		if _, err := b.tagFile(tag); err != nil {
			b.logger.Warn("skipping tag", slog.String("page", page.Filename), slog.String("tag", tag), slog.Any("err", err))
			continue
		}
		kept = append(kept, tag)
	}
	return kept
}

// tagFile memoizes tags.FileName for the run.
func (b *build) tagFile(tag string) (string, error) {
	if name, ok := b.tagFiles[tag]; ok {
		return name, nil
	}
	name, err := tags.FileName(tag)
	if err != nil {
		return "", err
	}
	b.tagFiles[tag] = name
	return name, nil
}

// renderPage rewrites wiki links, converts the markdown and applies the page template.
func (b *build) renderPage(ctx context.Context, page source.Page, pageTags []string) (RenderedPage, error) {
	b.warnDanglingLinks(page)

	body, err := b.renderer.Render(ctx, []byte(wikilink.Rewrite(page.Content)))
	if err != nil {
		return RenderedPage{}, fmt.Errorf("render %s: %w", page.Filename, err)
	}

	view := pageView{
		Site:    b.site,
		Title:   page.Name,
		Content: template.HTML(body), //nolint:gosec // pages are trusted input, raw HTML passes through
		Tags:    make([]link, 0, len(pageTags)),
	}
	for _, tag := range pageTags {
		// filtered by pageTags, cannot fail
		file, _ := b.tagFile(tag)
		view.Tags = append(view.Tags, fileLink(tag, file))
	}

	html, err := b.templates.render(pageTemplate, view)
	if err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{Name: page.Name, Output: page.OutputName(), HTML: html}, nil
}

func (b *build) warnDanglingLinks(page source.Page) {
	for _, target := range wikilink.Targets(page.Content) {
		if _, ok := b.sources[target]; !ok {
			b.logger.Warn("link target has no source page",
				slog.String("page", page.Filename),
				slog.String("target", target))
		}
	}
}
