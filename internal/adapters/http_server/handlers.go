package httpserver

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_block/internal/app"
	"review_block/internal/domain"
)

// Check is a readiness probe for one dependency.
type Check func(ctx context.Context) error

type Handlers struct {
	Q      *app.QueryService
	Checks map[string]Check
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)
	s.mux.Get("/v1/submissions/{id}/reviews", h.getReviews)
	s.mux.Get("/v1/submissions/{id}/review-block", h.getReviewBlock)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func weakETag(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

// writeCached writes body with a weak ETag, or 304 when the client already has it.
func writeCached(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	etag := weakETag(body)
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func submissionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := submissionID(w, r)
	if !ok {
		return
	}
	agg, err := h.Q.GetReviewAggregate(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no reviews recorded for this submission")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("submission", id).Msg("load reviews failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	body, err := json.Marshal(agg)
	if err != nil {
		log.Error().Err(err).Int64("submission", id).Msg("marshal reviews failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCached(w, r, "application/json", body)
}

// getReviewBlock serves the rendered fragment. Submissions that were never
// ingested still get a 200 with the heading-only block.
func (h *Handlers) getReviewBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := submissionID(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.Q.RenderReviewBlock(r.Context(), &buf, id); err != nil {
		log.Error().Err(err).Int64("submission", id).Msg("render review block failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCached(w, r, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	failed := map[string]string{}
	for name, check := range h.Checks {
		if err := check(r.Context()); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		log.Warn().Interface("failed", failed).Msg("readiness check failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(failed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
