package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT MANAGER
// Server-side writes behind the REST API. Records are validated with the
// same policy as the client, receive a UUID and have their GPA derived
// before they are persisted.
// ══════════════════════════════════════════════════════════════════════════════

// SubjectManager handles create, update and delete against a repository
// and keeps the list cache coherent.
type SubjectManager struct {
	repo  subject.Repository
	cache subject.ListCache
	newID func() string
	log   *logger.Logger
}

// SubjectManagerOption configures a SubjectManager.
type SubjectManagerOption func(*SubjectManager)

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(fn func() string) SubjectManagerOption {
	return func(m *SubjectManager) { m.newID = fn }
}

// WithListCache enables cache invalidation after every write.
func WithListCache(c subject.ListCache) SubjectManagerOption {
	return func(m *SubjectManager) { m.cache = c }
}

// NewSubjectManager creates a SubjectManager.
func NewSubjectManager(repo subject.Repository, log *logger.Logger, opts ...SubjectManagerOption) *SubjectManager {
	if log == nil {
		log = logger.Nop()
	}
	m := &SubjectManager{
		repo:  repo,
		newID: uuid.NewString,
		log:   log.With(logger.Component("subject_manager")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create validates nr, assigns an id and stores the record.
func (m *SubjectManager) Create(ctx context.Context, nr subject.NewRecord) (subject.Record, error) {
	if errs := nr.Check(); !errs.Valid() {
		return subject.Record{}, &subject.ValidationError{Fields: errs}
	}
	if nr.ExamType == "" {
		nr.ExamType = subject.ExamMidterm
	}
	if !nr.ExamType.IsValid() {
		return subject.Record{}, shared.ErrInvalidExamType
	}

	rec := nr.Materialize(m.newID())
	if err := m.repo.Create(ctx, rec); err != nil {
		return subject.Record{}, fmt.Errorf("create subject: %w", err)
	}
	m.invalidate(ctx)

	m.log.Info("subject created", logger.SubjectID(rec.ID), logger.SubjectName(rec.Name))
	return rec, nil
}

// UpdateMarks replaces the marks of id.
func (m *SubjectManager) UpdateMarks(ctx context.Context, id string, marks float64) (subject.Record, error) {
	if marks < 0 || marks > 100 {
		return subject.Record{}, &subject.ValidationError{
			Fields: subject.FieldErrors{subject.FieldMarks: subject.MsgMarksRange},
		}
	}

	rec, err := m.repo.UpdateMarks(ctx, id, marks)
	if err != nil {
		return subject.Record{}, fmt.Errorf("update marks: %w", err)
	}
	m.invalidate(ctx)

	m.log.Info("subject marks updated", logger.SubjectID(id), logger.Marks(marks))
	return rec.Normalize(), nil
}

// Delete removes id.
func (m *SubjectManager) Delete(ctx context.Context, id string) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	m.invalidate(ctx)

	m.log.Info("subject deleted", logger.SubjectID(id))
	return nil
}

// invalidate drops the cached list. A cache failure is logged, not
// returned: the write itself succeeded.
func (m *SubjectManager) invalidate(ctx context.Context) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Invalidate(ctx); err != nil {
		m.log.Warn("failed to invalidate subject list cache", logger.Err(err))
	}
}
