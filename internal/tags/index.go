package tags

// Index maps each tag to the pages that declare it. Tags and pages keep insertion order.
// An Index is not safe for concurrent use.
type Index struct {
	pages map[string][]string
	order []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{pages: make(map[string][]string)}
}

// Add appends page to the entry of every tag, creating entries on first use.
func (ix *Index) Add(page string, tags []string) {
	for _, tag := range tags {
		if _, ok := ix.pages[tag]; !ok {
			ix.order = append(ix.order, tag)
		}
		ix.pages[tag] = append(ix.pages[tag], page)
	}
}

// Tags returns every tag in first-seen order.
func (ix *Index) Tags() []string {
	return append([]string(nil), ix.order...)
}

// Pages returns the pages carrying tag in the order they were added.
func (ix *Index) Pages(tag string) []string {
	return append([]string(nil), ix.pages[tag]...)
}

// Len reports the number of distinct tags.
func (ix *Index) Len() int {
	return len(ix.order)
}
