package query

import (
	"context"
	"errors"
	"testing"

	"github.com/gradepulse/gradepulse/internal/domain/library"
	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister struct {
	records []subject.Record
	err     error
	calls   int
}

func (s *staticLister) List(context.Context) ([]subject.Record, error) {
	s.calls++
	return s.records, s.err
}

type memCache struct {
	list    []subject.Record
	getErr  error
	setErr  error
	setCall int
}

func (c *memCache) GetList(context.Context) ([]subject.Record, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.list, nil
}

func (c *memCache) SetList(_ context.Context, r []subject.Record) error {
	c.setCall++
	if c.setErr != nil {
		return c.setErr
	}
	c.list = r
	return nil
}

func (c *memCache) Invalidate(context.Context) error { c.list = nil; return nil }

func scenario() []subject.Record {
	return []subject.Record{
		{ID: "1", Name: "Physics", Marks: 85, Credits: 4, ExamType: subject.ExamFinal},
		{ID: "2", Name: "Math", Marks: 55, Credits: 3, ExamType: subject.ExamFinal},
	}
}

func TestListSubjects_ReadThrough(t *testing.T) {
	src := &staticLister{records: scenario()}
	cache := &memCache{}
	h := NewListSubjectsHandler(src, cache, nil)

	res, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 9, res.Subjects[0].GPA)
	assert.Equal(t, 1, cache.setCall)

	res, err = h.Handle(context.Background())
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 1, src.calls)
}

func TestListSubjects_CacheErrorsDegrade(t *testing.T) {
	src := &staticLister{records: scenario()}
	cache := &memCache{getErr: errors.New("redis: connection refused"), setErr: errors.New("nope")}
	h := NewListSubjectsHandler(src, cache, nil)

	res, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Subjects, 2)
}

func TestListSubjects_SourceError(t *testing.T) {
	h := NewListSubjectsHandler(&staticLister{err: errors.New("db down")}, nil, nil)
	_, err := h.Handle(context.Background())
	assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
}

func TestGetReport(t *testing.T) {
	rep, err := NewGetReportHandler(&staticLister{records: scenario()}).Handle(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 54.0/7.0, rep.CGPA.Value, 1e-9)
	assert.InDelta(t, 505.0/7.0, rep.Percentage.Value, 1e-9)
	assert.Equal(t, 0.0, rep.PassFail.FailureRate)
}

func TestSuggestBooks(t *testing.T) {
	catalog, err := library.DefaultCatalog()
	require.NoError(t, err)
	h := NewSuggestBooksHandler(&staticLister{records: scenario()}, catalog)

	res, err := h.Handle(context.Background(), SuggestBooksQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Physics", res.Subject)
	assert.Equal(t, []string{"Physics", "Math"}, res.Subjects)
	assert.Len(t, res.Books, 3)
	assert.Equal(t, 9, res.Total)
	assert.True(t, res.HasMore)
	require.NotNil(t, res.Featured)

	res, err = h.Handle(context.Background(), SuggestBooksQuery{Subject: "Math", Page: 2})
	require.NoError(t, err)
	assert.Len(t, res.Books, 2, "unknown subjects fall back to the default list")
	assert.False(t, res.HasMore)
}

func TestSuggestBooks_Empty(t *testing.T) {
	catalog, err := library.DefaultCatalog()
	require.NoError(t, err)
	res, err := NewSuggestBooksHandler(&staticLister{}, catalog).Handle(context.Background(), SuggestBooksQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Books)
	assert.Equal(t, "", res.Subject)
}
