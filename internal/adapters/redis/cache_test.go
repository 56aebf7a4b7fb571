package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "review_block/internal/adapters/redis"
	"review_block/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	in := domain.ReviewAggregate{
		Recommendation: domain.Recommendation{Display: "Approve"},
		Reviews: []domain.ReviewItem{
			{ID: 1, Author: "A", Score: 4.5, Recommendation: domain.Recommendation{Display: "Yes"}, ReviewURL: "http://x"},
		},
	}
	if err := c.Set(ctx, "review_block:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("review_block:1"); ttl != time.Minute {
		t.Fatalf("ttl: %v", ttl)
	}

	var out domain.ReviewAggregate
	ok, err := c.Get(ctx, "review_block:1", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Recommendation.Display != "Approve" || len(out.Reviews) != 1 || out.Reviews[0].Score != 4.5 {
		t.Fatalf("unexpected value: %+v", out)
	}

	if err := c.Del(ctx, "review_block:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "review_block:1", &out)
	if err != nil || ok {
		t.Fatalf("expected miss after del: ok=%v err=%v", ok, err)
	}
}

func TestCache_ExpiredIsMiss(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	if err := c.Set(ctx, "k", map[string]int{"a": 1}, 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var out map[string]int
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatalf("expected expired key to miss")
	}
}

func TestCache_CorruptEntryDropped(t *testing.T) {
	c, mr := newCache(t)
	if err := mr.Set("k", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var out domain.ReviewAggregate
	ok, err := c.Get(context.Background(), "k", &out)
	if ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
	if mr.Exists("k") {
		t.Fatalf("corrupt key should have been deleted")
	}
}

func TestCache_Ping(t *testing.T) {
	c, mr := newCache(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mr.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail once server is gone")
	}
}
