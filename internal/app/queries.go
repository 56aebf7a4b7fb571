package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"review_block/internal/adapters/observability"
	"review_block/internal/domain"
	"review_block/internal/view"
)

func aggregateKey(submissionID int64) string { return fmt.Sprintf("review_block:%d", submissionID) }

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
	views    *view.Renderer
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration, v *view.Renderer) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, views: v}
}

// GetReviewAggregate reads through the cache. domain.ErrNotFound means the
// submission has not been ingested yet.
func (s *QueryService) GetReviewAggregate(ctx context.Context, submissionID int64) (domain.ReviewAggregate, error) {
	key := aggregateKey(submissionID)
	var out domain.ReviewAggregate
	ok, err := s.cache.Get(ctx, key, &out)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	}
	if ok {
		return out, nil
	}

	agg, err := s.repo.GetAggregate(ctx, submissionID)
	if err != nil {
		return domain.ReviewAggregate{}, err
	}

	// copy to avoid aliasing the repo's backing array
	cp := *agg.Clone()
	if err := s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return cp, nil
}

// RenderReviewBlock writes the review block of a submission to w. A submission
// that has not been ingested renders the heading-only block.
func (s *QueryService) RenderReviewBlock(ctx context.Context, w io.Writer, submissionID int64) error {
	var agg *domain.ReviewAggregate
	got, err := s.GetReviewAggregate(ctx, submissionID)
	switch {
	case err == nil:
		agg = &got
	case errors.Is(err, domain.ErrNotFound):
		agg = nil
	default:
		return err
	}

	observability.ObserveRender(string(view.StateOf(agg)))
	return s.views.ReviewBlock(w, agg)
}
