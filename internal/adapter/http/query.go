package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/couchcryptid/epw-etl/internal/domain"
	"github.com/go-playground/validator/v10"
)

const defaultPreviewRows = 5

// queryParams holds the optional integer query parameters shared by the
// parse and preview routes. Nil means the parameter was absent.
type queryParams struct {
	MaxLines *int `query:"max_lines" validate:"omitempty,min=0"`
	FirstN   *int `query:"first_n" validate:"omitempty,min=0"`
	LastN    *int `query:"last_n" validate:"omitempty,min=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report query names in messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if tag := fld.Tag.Get("query"); tag != "" {
			return tag
		}
		return fld.Name
	})
	return v
}

func bindQuery(r *http.Request) (queryParams, error) {
	values := r.URL.Query()
	var q queryParams
	params := []struct {
		name string
		dst  **int
	}{
		{"max_lines", &q.MaxLines},
		{"first_n", &q.FirstN},
		{"last_n", &q.LastN},
	}
	for _, p := range params {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return queryParams{}, fmt.Errorf("%s must be an integer", p.name)
		}
		*p.dst = &n
	}

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
			}
			return queryParams{}, errors.New(strings.Join(msgs, "; "))
		}
		return queryParams{}, err
	}
	return q, nil
}

func (q queryParams) maxLines() int {
	if q.MaxLines == nil {
		return domain.NoLineLimit
	}
	return *q.MaxLines
}

func (q queryParams) previewCounts() (firstN, lastN int) {
	firstN, lastN = defaultPreviewRows, defaultPreviewRows
	if q.FirstN != nil {
		firstN = *q.FirstN
	}
	if q.LastN != nil {
		lastN = *q.LastN
	}
	return firstN, lastN
}
