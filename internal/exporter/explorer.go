package exporter

import "github.com/euforicio/wikigen/internal/source"

// ExplorerFile is the name of the page listing every source file.
const ExplorerFile = "explorer.html"

// renderExplorer lists files in scan order, labeled with their source filename.
func (b *build) renderExplorer(files []string) ([]byte, error) {
	view := explorerView{
		Site:  b.site,
		Title: "Explorer",
		Files: make([]link, 0, len(files)),
	}
	for _, file := range files {
		view.Files = append(view.Files, fileLink(file, source.HTMLName(source.PageName(file))))
	}
	return b.templates.render(explorerTemplate, view)
}
