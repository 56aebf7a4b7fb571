package app_test

import (
	"context"
	"errors"

	"review_block/internal/domain"
)

// ---- fakes ----

type missRec struct {
	id     int64
	status int
	reason string
}

type fakeRepo struct {
	aggs     map[int64]domain.ReviewAggregate
	getErr   error
	upserted map[int64]domain.ReviewAggregate
	deleted  []int64
	misses   []missRec
	gets     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{aggs: map[int64]domain.ReviewAggregate{}, upserted: map[int64]domain.ReviewAggregate{}}
}

func (f *fakeRepo) UpsertAggregate(ctx context.Context, id int64, agg domain.ReviewAggregate) error {
	f.upserted[id] = agg
	f.aggs[id] = agg
	return nil
}
func (f *fakeRepo) DeleteAggregate(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.aggs, id)
	return nil
}
func (f *fakeRepo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	f.misses = append(f.misses, missRec{id, status, reason})
	return nil
}
func (f *fakeRepo) GetAggregate(ctx context.Context, id int64) (domain.ReviewAggregate, error) {
	f.gets++
	if f.getErr != nil {
		return domain.ReviewAggregate{}, f.getErr
	}
	agg, ok := f.aggs[id]
	if !ok {
		return domain.ReviewAggregate{}, domain.ErrNotFound
	}
	return agg, nil
}

type fakeCache struct {
	store  map[string]any
	getErr error
	dels   []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.ReviewAggregate:
		*d = v.(domain.ReviewAggregate)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

type fakeSource struct {
	payload map[string]any
	err     error
}

func (s *fakeSource) GetSubmissionReviews(ctx context.Context, id int64) (map[string]any, error) {
	return s.payload, s.err
}

var errBoom = errors.New("boom")

func item(id int64, author string, score float64, rec, url string) domain.ReviewItem {
	return domain.ReviewItem{ID: id, Author: author, Score: score, Recommendation: domain.Recommendation{Display: rec}, ReviewURL: url}
}
