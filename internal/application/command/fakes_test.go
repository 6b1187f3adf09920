package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// fakeRemote is an in-memory subject.Remote. Setting failWith makes every
// call fail; block, when non-nil, is received from before answering.
type fakeRemote struct {
	mu       sync.Mutex
	records  []subject.Record
	nextID   int
	failWith error
	block    chan struct{}
	calls    int
}

func (f *fakeRemote) wait(ctx context.Context) {
	if f.block == nil {
		return
	}
	select {
	case <-f.block:
	case <-ctx.Done():
	}
}

func (f *fakeRemote) FetchAll(ctx context.Context) ([]subject.Record, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]subject.Record(nil), f.records...), nil
}

func (f *fakeRemote) Create(ctx context.Context, nr subject.NewRecord) (subject.Record, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWith != nil {
		return subject.Record{}, f.failWith
	}
	f.nextID++
	rec := nr.Materialize(fmt.Sprintf("r%d", f.nextID))
	// Remote responses are not trusted for gpa.
	rec.GPA = 0
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWith != nil {
		return f.failWith
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return shared.NewTransportError("delete", 404, shared.ErrSubjectNotFound)
}

func (f *fakeRemote) UpdateMarks(ctx context.Context, id string, marks float64) (subject.Record, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWith != nil {
		return subject.Record{}, f.failWith
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records[i] = r.WithMarks(marks)
			return f.records[i], nil
		}
	}
	return subject.Record{}, shared.NewTransportError("update", 404, shared.ErrSubjectNotFound)
}

// fakeRepo is an in-memory subject.Repository.
type fakeRepo struct {
	records   []subject.Record
	createErr error
}

func (r *fakeRepo) List(context.Context) ([]subject.Record, error) {
	return append([]subject.Record(nil), r.records...), nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (subject.Record, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return subject.Record{}, shared.ErrSubjectNotFound
}

func (r *fakeRepo) Create(_ context.Context, rec subject.Record) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRepo) UpdateMarks(_ context.Context, id string, marks float64) (subject.Record, error) {
	for i, rec := range r.records {
		if rec.ID == id {
			r.records[i] = rec.WithMarks(marks)
			return r.records[i], nil
		}
	}
	return subject.Record{}, shared.ErrSubjectNotFound
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return shared.ErrSubjectNotFound
}

type fakeCache struct {
	invalidations int
	err           error
}

func (c *fakeCache) GetList(context.Context) ([]subject.Record, error) { return nil, nil }
func (c *fakeCache) SetList(context.Context, []subject.Record) error   { return nil }
func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidations++
	return c.err
}
