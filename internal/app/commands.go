package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"review_block/internal/adapters/observability"
	"review_block/internal/domain"
)

type IngestionService struct {
	source domain.ReviewSource
	repo   domain.ReviewRepository
	cache  domain.Cache
}

func NewIngestionService(src domain.ReviewSource, r domain.ReviewRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{source: src, repo: r, cache: cache}
}

// IngestSubmission pulls a submission's review summary from upstream, validates
// it and stores it. Upstream 404/401/403 and invalid payloads are recorded as
// misses and are not errors.
func (s *IngestionService) IngestSubmission(ctx context.Context, id int64) error {
	payload, err := s.source.GetSubmissionReviews(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// submission gone upstream: drop what we have so it renders as absent
			s.miss(ctx, id, 404, "not found")
			if derr := s.repo.DeleteAggregate(ctx, id); derr != nil {
				return fmt.Errorf("delete aggregate %d: %w", id, derr)
			}
			s.invalidate(ctx, id)
			return nil
		case errors.Is(err, domain.ErrForbidden):
			s.miss(ctx, id, 403, "forbidden")
			s.invalidate(ctx, id)
			return nil
		default:
			observability.ObserveIngest("error")
			return err
		}
	}

	agg, err := mapAggregate(payload)
	if err == nil {
		err = agg.Validate()
	}
	if err != nil {
		log.Warn().Int64("submission", id).Err(err).
			Interface("fields", domain.FieldErrors(err)).
			Msg("rejecting invalid review payload")
		s.miss(ctx, id, 422, "invalid")
		return nil
	}

	if err := s.repo.UpsertAggregate(ctx, id, agg); err != nil {
		observability.ObserveIngest("error")
		return fmt.Errorf("upsert aggregate %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	observability.ObserveIngest("ok")
	return nil
}

func (s *IngestionService) miss(ctx context.Context, id int64, status int, reason string) {
	observability.ObserveIngest("miss")
	if err := s.repo.LogMiss(ctx, id, status, reason); err != nil {
		log.Warn().Int64("submission", id).Err(err).Msg("log miss failed")
	}
}

func (s *IngestionService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, aggregateKey(id)); err != nil {
		log.Warn().Int64("submission", id).Err(err).Msg("cache invalidation failed")
	}
}
