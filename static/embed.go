// Package static embeds the stylesheets copied into every generated site.
package static

import (
	"embed"
	"io/fs"
)

//go:generate go run ../tools/generate-chroma-css --style github --out assets/chroma.css

//go:embed assets/*.css
var assets embed.FS

// FS exposes the embedded assets rooted at the asset directory, so "style.css" is a valid path.
func FS() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		// "assets" is a literal embedded directory
		panic(err)
	}
	return sub
}
