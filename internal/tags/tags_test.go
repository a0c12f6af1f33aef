package tags_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euforicio/wikigen/internal/tags"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "trimmed and ordered", content: "Tags: x, y ,z", want: []string{"x", "y", "z"}},
		{name: "mid line", content: "See [Setup](setup.md). Tags: guide, basics", want: []string{"guide", "basics"}},
		{name: "case insensitive prefix", content: "# Title\n\ntags: Go,Web", want: []string{"Go", "Web"}},
		{name: "whitespace separated", content: "TAGS: one two\tthree", want: []string{"one", "two", "three"}},
		{name: "first line only", content: "Tags: a\nTags: b", want: []string{"a"}},
		{name: "stops at line end", content: "Tags: a, b\r\nnext line", want: []string{"a", "b"}},
		{name: "empty tokens dropped", content: "Tags: , a,, ,b,", want: []string{"a", "b"}},
		{name: "repeats collapsed", content: "Tags: a, b, a", want: []string{"a", "b"}},
		{name: "case variants kept", content: "Tags: Go, go", want: []string{"Go", "go"}},
		{name: "no tag line", content: "# Heading\n\nplain body", want: []string{}},
		{name: "word suffix is not a tag line", content: "Subtags: nope", want: []string{}},
		{name: "empty declaration", content: "Tags:   ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tags.Extract(tt.content)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	ix := tags.NewIndex()
	ix.Add("intro", []string{"guide", "basics"})
	ix.Add("notes", nil)
	ix.Add("setup", []string{"guide"})

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []string{"guide", "basics"}, ix.Tags())
	assert.Equal(t, []string{"intro", "setup"}, ix.Pages("guide"))
	assert.Equal(t, []string{"intro"}, ix.Pages("basics"))
	assert.Empty(t, ix.Pages("missing"))
}

func TestIndexReturnsCopies(t *testing.T) {
	t.Parallel()
	ix := tags.NewIndex()
	ix.Add("intro", []string{"guide"})

	pages := ix.Pages("guide")
	pages[0] = "mutated"
	keys := ix.Tags()
	keys[0] = "mutated"

	assert.Equal(t, []string{"intro"}, ix.Pages("guide"))
	assert.Equal(t, []string{"guide"}, ix.Tags())
}

func TestFileNameVerbatimForSafeTags(t *testing.T) {
	t.Parallel()
	for _, tag := range []string{"guide", "Go", "c++", "v1.2", "naïve"} {
		name, err := tags.FileName(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, "tag-"+tag+".html", name)
	}
}

func TestFileNameSanitizesPathHostileTags(t *testing.T) {
	t.Parallel()
	for _, tag := range []string{"../etc/passwd", "a/b", `dir\file`, ".hidden", "what?"} {
		name, err := tags.FileName(tag)
		if err != nil {
			assert.ErrorIs(t, err, tags.ErrUnsafeTag, tag)
			continue
		}
		assert.True(t, strings.HasPrefix(name, "tag-"), name)
		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, `\`)
		assert.False(t, strings.HasPrefix(name, "tag-."), name)
	}
}

func TestFileNameRejectsUnusableTags(t *testing.T) {
	t.Parallel()
	for _, tag := range []string{"", "..", "///"} {
		_, err := tags.FileName(tag)
		assert.ErrorIs(t, err, tags.ErrUnsafeTag, tag)
	}
}

func TestFileNameLengthLimit(t *testing.T) {
	t.Parallel()
	longest := strings.Repeat("a", 255-len("tag-.html"))
	name, err := tags.FileName(longest)
	require.NoError(t, err)
	assert.Len(t, name, 255)

	// too long to use verbatim: either rejected or slugified into a usable name
	name, err = tags.FileName(strings.Repeat("x", 260))
	if err != nil {
		assert.ErrorIs(t, err, tags.ErrUnsafeTag)
		return
	}
	assert.LessOrEqual(t, len(name), 255)
}
