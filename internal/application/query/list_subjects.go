// Package query contains the read side of GradePulse. Queries never
// modify state.
package query

import (
	"context"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST SUBJECTS QUERY
// Read-through over the list cache. Cache errors degrade to a repository
// read; they never fail the query.
// ══════════════════════════════════════════════════════════════════════════════

// RecordLister is satisfied by both subject.Repository and the client store.
type RecordLister interface {
	List(ctx context.Context) ([]subject.Record, error)
}

// ListSubjectsResult is the full ordered collection.
type ListSubjectsResult struct {
	Subjects  []subject.Record `json:"subjects"`
	FromCache bool             `json:"-"`
}

// ListSubjectsHandler serves GET /subjects.
type ListSubjectsHandler struct {
	source RecordLister
	cache  subject.ListCache
	log    *logger.Logger
}

// NewListSubjectsHandler creates the handler. cache may be nil.
func NewListSubjectsHandler(source RecordLister, cache subject.ListCache, log *logger.Logger) *ListSubjectsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ListSubjectsHandler{source: source, cache: cache, log: log.With(logger.Component("list_subjects"))}
}

// Handle returns every record with a freshly derived GPA.
func (h *ListSubjectsHandler) Handle(ctx context.Context) (*ListSubjectsResult, error) {
	if h.cache != nil {
		cached, err := h.cache.GetList(ctx)
		if err == nil && cached != nil {
			return &ListSubjectsResult{Subjects: normalizeAll(cached), FromCache: true}, nil
		}
		if err != nil && !shared.IsNotFound(err) {
			h.log.Warn("subject list cache read failed", logger.Err(err))
		}
	}

	records, err := h.source.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ListSubjects", shared.ErrServiceUnavailable, "failed to list subjects", err)
	}
	records = normalizeAll(records)

	if h.cache != nil {
		if err := h.cache.SetList(ctx, records); err != nil {
			h.log.Warn("subject list cache write failed", logger.Err(err))
		}
	}
	return &ListSubjectsResult{Subjects: records}, nil
}

func normalizeAll(records []subject.Record) []subject.Record {
	out := make([]subject.Record, len(records))
	for i, r := range records {
		out[i] = r.Normalize()
	}
	return out
}
