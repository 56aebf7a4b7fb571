package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"review_block/internal/domain"
)

/********** alias registries (single source of truth) **********/

// The platform has served both camelCase and snake_case payloads, and older
// versions nest the reviewer and recommendation differently.
var aggregateAliases = map[string][]string{
	"recommendation": {"recommendation.display", "recommendation_display", "recommendation"},
	"reviews":        {"reviews", "results", "assigned"},
}

var reviewAliases = map[string][]string{
	"id":             {"id", "review_id", "reviewId", "pk"},
	"author":         {"author", "author.name", "reviewer", "reviewer.full_name", "reviewer.name"},
	"score":          {"score", "total_score", "score.value", "average_score"},
	"recommendation": {"recommendation.display", "recommendation_display", "recommendation"},
	"url":            {"reviewUrl", "review_url", "url", "link"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstString: first non-empty string among the alias paths for key.
func firstString(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s, ok := lookupAny(m, p).(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstFloat: number from several paths (float64/int/string like "8,0").
func firstFloat(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, true
			}
		}
	}
	return 0, false
}

// firstInt64: int64 from several paths (float64/int/string). Fractional
// numbers are not ids and are skipped.
func firstInt64(m map[string]any, paths ...string) (int64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			if v != math.Trunc(v) || math.IsInf(v, 0) {
				continue
			}
			return int64(v), true
		case int:
			return int64(v), true
		case int64:
			return v, true
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// firstSlice: first []any found among paths.
func firstSlice(m map[string]any, paths ...string) ([]any, bool) {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			return raw, true
		}
	}
	return nil, false
}

/********** aggregate mapper **********/

// mapAggregate converts an upstream payload into a ReviewAggregate. Entries
// that are not objects, and reviews without an integral id or a numeric score,
// make the whole payload invalid. Field checks are left to Validate.
func mapAggregate(p map[string]any) (domain.ReviewAggregate, error) {
	agg := domain.ReviewAggregate{
		Recommendation: domain.Recommendation{Display: firstString(p, aggregateAliases, "recommendation")},
		Reviews:        []domain.ReviewItem{},
	}

	raw, _ := firstSlice(p, aggregateAliases["reviews"]...)
	for i, it := range raw {
		r, ok := it.(map[string]any)
		if !ok {
			return agg, fmt.Errorf("%w: reviews[%d]: expected object, got %T", domain.ErrInvalid, i, it)
		}
		rv, err := mapReview(r)
		if err != nil {
			return agg, fmt.Errorf("%w: reviews[%d]: %w", domain.ErrInvalid, i, err)
		}
		agg.Reviews = append(agg.Reviews, rv)
	}
	return agg, nil
}

func mapReview(r map[string]any) (domain.ReviewItem, error) {
	var rv domain.ReviewItem
	id, ok := firstInt64(r, reviewAliases["id"]...)
	if !ok {
		return rv, errors.New("missing or non-integral id")
	}
	rv.ID = id
	score, ok := firstFloat(r, reviewAliases["score"]...)
	if !ok {
		return rv, errors.New("missing or unparseable score")
	}
	rv.Score = score
	rv.Author = firstString(r, reviewAliases, "author")
	rv.Recommendation.Display = firstString(r, reviewAliases, "recommendation")
	rv.ReviewURL = firstString(r, reviewAliases, "url")
	return rv, nil
}
