package domain

import "context"

type ReviewRepository interface {
	// Write paths
	UpsertAggregate(ctx context.Context, submissionID int64, agg ReviewAggregate) error
	DeleteAggregate(ctx context.Context, submissionID int64) error
	LogMiss(ctx context.Context, submissionID int64, status int, reason string) error

	// Read paths
	GetAggregate(ctx context.Context, submissionID int64) (ReviewAggregate, error)
}

// ReviewSource is the upstream application that owns submissions and their reviews.
type ReviewSource interface {
	GetSubmissionReviews(ctx context.Context, submissionID int64) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
