package redis

import (
	"context"
	"errors"
	"time"

	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

const subjectListKey = "subjects:list"

// SubjectListCache implements subject.ListCache on top of Cache.
type SubjectListCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewSubjectListCache creates a SubjectListCache. A non-positive ttl
// selects TTLSubjectList.
func NewSubjectListCache(cache *Cache, ttl time.Duration) *SubjectListCache {
	if ttl <= 0 {
		ttl = TTLSubjectList
	}
	return &SubjectListCache{cache: cache, ttl: ttl}
}

// GetList returns (nil, nil) on a miss.
func (s *SubjectListCache) GetList(ctx context.Context) ([]subject.Record, error) {
	var records []subject.Record
	if err := s.cache.Get(ctx, subjectListKey, &records); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	if records == nil {
		records = []subject.Record{}
	}
	return records, nil
}

// SetList stores the full list.
func (s *SubjectListCache) SetList(ctx context.Context, records []subject.Record) error {
	if records == nil {
		records = []subject.Record{}
	}
	return s.cache.Set(ctx, subjectListKey, records, s.ttl)
}

// Invalidate drops the cached list.
func (s *SubjectListCache) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, subjectListKey)
}

var _ subject.ListCache = (*SubjectListCache)(nil)
