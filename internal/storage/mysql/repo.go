package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"review_block/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertAggregate replaces the stored aggregate of a submission atomically.
func (r *Repo) UpsertAggregate(ctx context.Context, submissionID int64, agg domain.ReviewAggregate) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, upsertAggregateSQL, submissionID, agg.Recommendation.Display); err != nil {
		return fmt.Errorf("upsert aggregate %d: %w", submissionID, err)
	}
	if _, err = tx.ExecContext(ctx, deleteReviewsSQL, submissionID); err != nil {
		return fmt.Errorf("clear reviews %d: %w", submissionID, err)
	}
	if len(agg.Reviews) > 0 {
		values := make([]string, 0, len(agg.Reviews))
		args := make([]any, 0, len(agg.Reviews)*7) // 7 params per row
		for pos, rv := range agg.Reviews {
			values = append(values, "(?,?,?,?,?,?,?)")
			args = append(args,
				submissionID,
				rv.ID,
				pos,
				rv.Author,
				rv.Score,
				rv.Recommendation.Display,
				rv.ReviewURL,
			)
		}
		if _, err = tx.ExecContext(ctx, insertReviewsPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert reviews %d: %w", submissionID, err)
		}
	}
	return tx.Commit()
}

func (r *Repo) DeleteAggregate(ctx context.Context, submissionID int64) error {
	_, err := r.db.ExecContext(ctx, deleteAggregateSQL, submissionID)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, submissionID int64, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, submissionID, status, reason)
	return err
}

func (r *Repo) GetAggregate(ctx context.Context, submissionID int64) (domain.ReviewAggregate, error) {
	var agg domain.ReviewAggregate
	if err := r.db.QueryRowContext(ctx, getAggregateSQL, submissionID).Scan(&agg.Recommendation.Display); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReviewAggregate{}, domain.ErrNotFound
		}
		return domain.ReviewAggregate{}, err
	}

	rows, err := r.db.QueryContext(ctx, listReviewsSQL, submissionID)
	if err != nil {
		return domain.ReviewAggregate{}, err
	}
	defer rows.Close()

	agg.Reviews = []domain.ReviewItem{}
	for rows.Next() {
		var rv domain.ReviewItem
		if err := rows.Scan(&rv.ID, &rv.Author, &rv.Score, &rv.Recommendation.Display, &rv.ReviewURL); err != nil {
			return domain.ReviewAggregate{}, err
		}
		agg.Reviews = append(agg.Reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewAggregate{}, err
	}
	return agg, nil
}
