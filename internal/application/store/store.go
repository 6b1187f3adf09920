// Package store holds the client's ordered, in-memory collection of subject
// records. It is mutated only after the remote store has confirmed a
// change, and it is the single source the aggregation engine reads from.
package store

import (
	"context"
	"sync"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/pkg/logger"
)

// Store is safe for concurrent readers and a single writer at a time.
// Records keep insertion order; ids are unique.
type Store struct {
	mu      sync.RWMutex
	records []subject.Record
	index   map[string]int
	version uint64
	log     *logger.Logger
}

// New returns an empty store.
func New(log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		index: make(map[string]int),
		log:   log.With(logger.Component("store")),
	}
}

// ReplaceAll discards the current contents and loads records in order.
// GPA is re-derived for every record. When records repeat an id the first
// occurrence is kept. Records that fail subject.Record.Check are skipped.
func (s *Store) ReplaceAll(records []subject.Record) {
	next := make([]subject.Record, 0, len(records))
	index := make(map[string]int, len(records))
	for _, r := range records {
		if _, dup := index[r.ID]; dup {
			s.log.Warn("duplicate id in full load, keeping first", logger.SubjectID(r.ID))
			continue
		}
		r = r.Normalize()
		if errs := r.Check(); len(errs) > 0 {
			s.log.Warn("invalid record in full load, skipped",
				logger.SubjectID(r.ID),
				logger.Err(&subject.ValidationError{Fields: errs}),
			)
			continue
		}
		index[r.ID] = len(next)
		next = append(next, r)
	}

	s.mu.Lock()
	s.records = next
	s.index = index
	s.version++
	s.mu.Unlock()

	s.log.Debug("store replaced", logger.Records(len(next)))
}

// Insert appends r. It returns shared.ErrDuplicateID if r.ID is present
// and shared.ErrInvalidRecord if r fails subject.Record.Check.
func (s *Store) Insert(r subject.Record) error {
	r = r.Normalize()
	if errs := r.Check(); len(errs) > 0 {
		return shared.WrapError("store", "Insert", shared.ErrInvalidRecord, "rejected "+r.ID,
			&subject.ValidationError{Fields: errs})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[r.ID]; ok {
		return shared.ErrDuplicateID
	}
	s.index[r.ID] = len(s.records)
	s.records = append(s.records, r)
	s.version++
	return nil
}

// Remove deletes the record with id. Absent ids are a no-op.
// It reports whether a record was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	s.version++
	return true
}

// UpdateMarks replaces the marks of id and recomputes its GPA. Every other
// field is left untouched. Absent ids are a no-op.
func (s *Store) UpdateMarks(id string, marks float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.records[i] = s.records[i].WithMarks(marks)
	s.version++
	return true
}

// Snapshot returns a copy of the records in order.
func (s *Store) Snapshot() []subject.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]subject.Record(nil), s.records...)
}

// List adapts Snapshot to the repository-style read used by queries.
func (s *Store) List(context.Context) ([]subject.Record, error) {
	return s.Snapshot(), nil
}

// Get returns the record with id.
func (s *Store) Get(id string) (subject.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return subject.Record{}, false
	}
	return s.records[i], true
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Version increases on every mutation; renderers compare it to skip
// recomputation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
