// Package view renders the "Reviews & assignees" block of a submission as an
// HTML fragment for the host page.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"review_block/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ReviewsColumn is the label handed to the empty panel when there are no reviews.
const ReviewsColumn = "reviews"

// BlockState is the branch the block renders.
type BlockState string

const (
	StateAbsent BlockState = "absent" // aggregate not loaded: heading only
	StateEmpty  BlockState = "empty"  // loaded, no reviews: empty panel
	StateList   BlockState = "list"   // loaded, one line per review
)

// StateOf reports which branch ReviewBlock takes for agg.
func StateOf(agg *domain.ReviewAggregate) BlockState {
	switch {
	case agg == nil:
		return StateAbsent
	case len(agg.Reviews) == 0:
		return StateEmpty
	default:
		return StateList
	}
}

// Renderer executes the block templates. It is safe for concurrent use.
type Renderer struct{ t *template.Template }

// Option adjusts the parsed template set before the renderer is built.
type Option func(*template.Template) error

// WithEmptyPanel replaces the empty-state collaborator. src must define the
// "empty-panel" template; it receives the column label as dot.
func WithEmptyPanel(src string) Option {
	return func(t *template.Template) error {
		_, err := t.New("empty-panel-override").Parse(src)
		return err
	}
}

// New parses the embedded templates and applies opts.
func New(opts ...Option) (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, o := range opts {
		if err := o(t); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if t.Lookup("empty-panel") == nil {
		return nil, fmt.Errorf("empty-panel template missing")
	}
	return &Renderer{t: t}, nil
}

// MustNew is New for package-level setup; it panics on a template error.
func MustNew(opts ...Option) *Renderer {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

type blockData struct {
	State          BlockState
	Recommendation string
	Column         string
	Reviews        []domain.ReviewItem
}

// ReviewBlock writes the block for agg. A nil agg renders only the heading.
func (r *Renderer) ReviewBlock(w io.Writer, agg *domain.ReviewAggregate) error {
	d := blockData{State: StateOf(agg), Column: ReviewsColumn}
	if agg.HasRecommendation() {
		d.Recommendation = agg.Recommendation.Display
	}
	if d.State == StateList {
		d.Reviews = agg.Reviews
	}
	return r.t.ExecuteTemplate(w, "review-block", d)
}

// Review writes a single reviewer line.
func (r *Renderer) Review(w io.Writer, item domain.ReviewItem) error {
	return r.t.ExecuteTemplate(w, "review", item)
}

// EmptyPanel writes the placeholder shown when column has nothing to list.
func (r *Renderer) EmptyPanel(w io.Writer, column string) error {
	return r.t.ExecuteTemplate(w, "empty-panel", column)
}
