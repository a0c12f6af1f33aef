// Package wikilink retargets inline markdown links between source pages to their rendered HTML files.
package wikilink

import "regexp"

// linkRe matches [text](target.md); text has no ']' and target has no ')'.
var linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\.md\)`)

// Rewrite replaces the .md suffix of every internal link target with .html.
// Link text and all other markdown are left as is.
func Rewrite(content string) string {
	return linkRe.ReplaceAllString(content, "[$1]($2.html)")
}

// Targets returns the .md link targets in order of appearance, duplicates included.
func Targets(content string) []string {
	matches := linkRe.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[2]+".md")
	}
	return out
}
