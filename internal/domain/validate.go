package domain

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid review aggregate")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json names (reviewUrl, not ReviewURL)
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("linkref", isLinkRef)
	})
	return validate
}

// isLinkRef accepts an absolute URL with a host or a root-relative path, the
// two forms the platform uses for review links.
func isLinkRef(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "" {
		return u.Host != ""
	}
	return strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//")
}

// Validate checks the aggregate at the point it enters the system. Views assume
// a validated aggregate and perform no checks of their own.
// A nil Reviews slice is normalised to an empty one.
func (a *ReviewAggregate) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil aggregate", ErrInvalid)
	}
	if a.Reviews == nil {
		a.Reviews = []ReviewItem{}
	}
	if err := validatorInstance().Struct(a); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	seen := make(map[int64]struct{}, len(a.Reviews))
	for i, r := range a.Reviews {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: reviews[%d]: duplicate id %d", ErrInvalid, i, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// FieldErrors maps failing fields (by namespace) to the failed tag.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Namespace()] = fe.Tag()
		}
	}
	return out
}
