package exporter

import (
	"github.com/euforicio/wikigen/internal/source"
	"github.com/euforicio/wikigen/internal/tags"
)

// renderTagPage lists the pages carrying tag. It links to pages and never embeds them.
func (b *build) renderTagPage(index *tags.Index, tag string) ([]byte, error) {
	pages := index.Pages(tag)
	view := tagView{
		Site:  b.site,
		Title: tag,
		Pages: make([]link, 0, len(pages)),
	}
	for _, name := range pages {
		view.Pages = append(view.Pages, fileLink(name, source.HTMLName(name)))
	}
	return b.templates.render(tagTemplate, view)
}
