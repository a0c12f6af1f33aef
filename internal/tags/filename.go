package tags

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

// ErrUnsafeTag is returned when a tag cannot be turned into a safe filename component.
var ErrUnsafeTag = errors.New("unsafe tag")

const (
	pagePrefix = "tag-"
	pageSuffix = ".html"
	// maxFileName is the common NAME_MAX of Linux, macOS and Windows filesystems.
	maxFileName = 255
)

// FileName returns the output filename for the page listing tag.
// Tags that are already safe path components are used verbatim; others are slugified.
func FileName(tag string) (string, error) {
	component, err := Component(tag)
	if err != nil {
		return "", err
	}
	return pagePrefix + component + pageSuffix, nil
}

// Component maps tag onto a single filename component.
func Component(tag string) (string, error) {
	if isSafeComponent(tag) {
		return tag, nil
	}
	normalized, err := slug.Normalize(tag)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrUnsafeTag, tag, err)
	}
	if !isSafeComponent(normalized) {
		return "", fmt.Errorf("%w %q", ErrUnsafeTag, tag)
	}
	return normalized, nil
}

func isSafeComponent(s string) bool {
	if s == "" || strings.HasPrefix(s, ".") {
		return false
	}
	if len(pagePrefix)+len(s)+len(pageSuffix) > maxFileName {
		return false
	}
	if strings.ContainsAny(s, `/\:*?"<>|`) {
		return false
	}
	for _, r := range s {
		if r == unicode.ReplacementChar || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
