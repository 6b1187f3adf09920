// Package memory implements a process-local subject repository, used when
// no database is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// SubjectRepository keeps records in insertion order.
type SubjectRepository struct {
	mu      sync.RWMutex
	records []subject.Record
}

// NewSubjectRepository returns a repository seeded with records.
func NewSubjectRepository(seed ...subject.Record) *SubjectRepository {
	r := &SubjectRepository{records: make([]subject.Record, 0, len(seed))}
	for _, rec := range seed {
		r.records = append(r.records, rec.Normalize())
	}
	return r
}

func (r *SubjectRepository) List(context.Context) ([]subject.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subject.Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *SubjectRepository) Get(_ context.Context, id string) (subject.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.records[i], nil
	}
	return subject.Record{}, shared.ErrSubjectNotFound
}

func (r *SubjectRepository) Create(_ context.Context, rec subject.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(rec.ID) >= 0 {
		return shared.NewDomainError("subject", "Create", shared.ErrAlreadyExists, "subject id already exists")
	}
	r.records = append(r.records, rec.Normalize())
	return nil
}

func (r *SubjectRepository) UpdateMarks(_ context.Context, id string, marks float64) (subject.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return subject.Record{}, shared.ErrSubjectNotFound
	}
	r.records[i] = r.records[i].WithMarks(marks)
	return r.records[i], nil
}

func (r *SubjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return shared.ErrSubjectNotFound
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

func (r *SubjectRepository) indexOf(id string) int {
	for i, rec := range r.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

var _ subject.Repository = (*SubjectRepository)(nil)
