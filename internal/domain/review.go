package domain

import (
	"strconv"
)

type Recommendation struct {
	Display string `json:"display" validate:"required"`
}

// ReviewItem is one reviewer's evaluation of a submission.
type ReviewItem struct {
	ID             int64          `json:"id" validate:"required"`
	Author         string         `json:"author" validate:"required"`
	Score          float64        `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	ReviewURL      string         `json:"reviewUrl" validate:"required,linkref"`
}

// ScoreText formats the score with the shortest decimal representation (5, 3.5).
func (r ReviewItem) ScoreText() string {
	return strconv.FormatFloat(r.Score, 'f', -1, 64)
}

// ReviewAggregate summarizes a submission's overall recommendation and its reviews.
// The top-level recommendation may be empty (no decision yet); the items' may not.
type ReviewAggregate struct {
	Recommendation Recommendation `json:"recommendation" validate:"-"`
	Reviews        []ReviewItem   `json:"reviews" validate:"dive"`
}

// HasRecommendation reports whether the overall recommendation line should be shown.
func (a *ReviewAggregate) HasRecommendation() bool {
	return a != nil && a.Recommendation.Display != ""
}

// Clone returns a copy that shares no backing array with a.
func (a *ReviewAggregate) Clone() *ReviewAggregate {
	if a == nil {
		return nil
	}
	out := &ReviewAggregate{Recommendation: a.Recommendation, Reviews: make([]ReviewItem, len(a.Reviews))}
	copy(out.Reviews, a.Reviews)
	return out
}
