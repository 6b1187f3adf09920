package library

import "github.com/gradepulse/gradepulse/internal/domain/subject"

// PageSize is how many suggestions each "load more" reveals.
const PageSize = 3

// Pager tracks the selected subject and how many of its books are visible.
type Pager struct {
	catalog  *Catalog
	selected string
	books    []Book
	visible  int
}

// NewPager returns a pager with no subject selected.
func NewPager(c *Catalog) *Pager {
	return &Pager{catalog: c}
}

// Select switches to subject and resets the visible count.
func (p *Pager) Select(name string) {
	p.selected = name
	if name == "" {
		p.books = nil
		p.visible = 0
		return
	}
	p.books = p.catalog.Suggest(name)
	p.visible = min(PageSize, len(p.books))
}

// Sync follows the store's subject list: the current selection is kept
// while it still exists, otherwise the first name is selected.
func (p *Pager) Sync(records []subject.Record) {
	names := subject.UniqueNames(records)
	if len(names) == 0 {
		p.Select("")
		return
	}
	for _, n := range names {
		if n == p.selected {
			return
		}
	}
	p.Select(names[0])
}

// LoadMore reveals the next page, capped at the list length.
func (p *Pager) LoadMore() {
	p.visible = min(p.visible+PageSize, len(p.books))
}

// Selected returns the selected subject name.
func (p *Pager) Selected() string { return p.selected }

// Visible returns the books currently shown.
func (p *Pager) Visible() []Book { return p.books[:p.visible] }

// HasMore reports whether LoadMore would reveal anything.
func (p *Pager) HasMore() bool { return p.visible < len(p.books) }

// Page returns the books of a 1-based page, for stateless callers.
func Page(books []Book, page int) []Book {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(books) {
		return []Book{}
	}
	return books[start:min(start+PageSize, len(books))]
}
