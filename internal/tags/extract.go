// Package tags extracts page tags from a "Tags:" line and indexes pages by tag.
package tags

import (
	"regexp"
	"strings"
	"unicode"
)

// tagLineRe captures the rest of the line after the first case-insensitive "Tags:".
var tagLineRe = regexp.MustCompile(`(?i)\btags:([^\r\n]*)`)

// Extract returns the tags declared on the first "Tags:" line of content, in order.
// Tokens are split on commas and whitespace; repeats keep their first position.
// Content without a tag line yields an empty slice.
func Extract(content string) []string {
	m := tagLineRe.FindStringSubmatch(content)
	if m == nil {
		return []string{}
	}

	fields := strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
