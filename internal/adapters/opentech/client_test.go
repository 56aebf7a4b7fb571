package opentech_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"review_block/internal/adapters/opentech"
)

func TestClient_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token test-key" {
			t.Errorf("auth header: %q", got)
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(503)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"reviews": []any{}})
		}
	}))
	defer ts.Close()

	cl, err := opentech.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.GetSubmissionReviews(ctx, 123)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := got["reviews"]; !ok {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_FallsBackToLegacyPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/submissions/9/review-summary/") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"recommendation": map[string]any{"display": "Yes"}})
	}))
	defer ts.Close()

	cl, _ := opentech.New(ts.URL+"/", "k", 100)
	got, err := cl.GetSubmissionReviews(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["recommendation"] == nil {
		t.Fatalf("expected legacy payload, got %+v", got)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:     opentech.ErrNotFound,
		http.StatusUnauthorized: opentech.ErrUnauthorized,
		http.StatusForbidden:    opentech.ErrForbidden,
	}
	for status, want := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		cl, _ := opentech.New(ts.URL, "k", 100)
		_, err := cl.GetSubmissionReviews(context.Background(), 1)
		ts.Close()
		if !errors.Is(err, want) {
			t.Fatalf("status %d: got %v want %v", status, err, want)
		}
	}
}

func TestClient_BadStatusNotRetried(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer ts.Close()

	cl, _ := opentech.New(ts.URL, "k", 100)
	_, err := cl.GetSubmissionReviews(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "bad status 418: nope") {
		t.Fatalf("unexpected err: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected a single call, got %d", hits)
	}
}

func TestClient_ContextCanceledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cl, _ := opentech.New(ts.URL, "k", 100)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := cl.GetSubmissionReviews(ctx, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := opentech.New("http://x", "", 1); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
