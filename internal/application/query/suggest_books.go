package query

import (
	"context"
	"strings"

	"github.com/gradepulse/gradepulse/internal/domain/library"
	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUGGEST BOOKS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// SuggestBooksQuery selects a subject and a "load more" page.
type SuggestBooksQuery struct {
	// Subject defaults to the first subject name in the collection.
	Subject string
	// Page is 1-based; page N returns the first N·PageSize books.
	Page int
}

// SuggestBooksResult is what the book panel renders.
type SuggestBooksResult struct {
	Subject  string         `json:"subject"`
	Subjects []string       `json:"subjects"`
	Books    []library.Book `json:"books"`
	Total    int            `json:"total"`
	HasMore  bool           `json:"hasMore"`
	Featured *library.Book  `json:"featured,omitempty"`
}

// SuggestBooksHandler resolves suggestions against the catalogue.
type SuggestBooksHandler struct {
	source  RecordLister
	catalog *library.Catalog
}

func NewSuggestBooksHandler(source RecordLister, catalog *library.Catalog) *SuggestBooksHandler {
	return &SuggestBooksHandler{source: source, catalog: catalog}
}

// Handle returns the visible books for the query.
func (h *SuggestBooksHandler) Handle(ctx context.Context, q SuggestBooksQuery) (*SuggestBooksResult, error) {
	records, err := h.source.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "SuggestBooks", shared.ErrServiceUnavailable, "failed to read subjects", err)
	}
	names := subject.UniqueNames(records)

	selected := strings.TrimSpace(q.Subject)
	if selected == "" && len(names) > 0 {
		selected = names[0]
	}
	res := &SuggestBooksResult{Subject: selected, Subjects: names, Books: []library.Book{}}
	if selected == "" {
		return res, nil
	}

	pager := library.NewPager(h.catalog)
	pager.Select(selected)
	for i := 1; i < q.Page; i++ {
		pager.LoadMore()
	}

	res.Books = pager.Visible()
	res.Total = len(h.catalog.Suggest(selected))
	res.HasMore = pager.HasMore()
	if b, err := h.catalog.Featured(selected); err == nil {
		res.Featured = &b
	}
	return res, nil
}
