package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// formValue accepts a JSON number or string and keeps its text, so the same
// lenient coercion applies whether the value came from a form or a script.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	if string(data) == "null" {
		*v = ""
		return nil
	}
	*v = formValue(data)
	return nil
}

type (
	addCategoryRequest struct {
		Name string `json:"name"`
	}

	amountRequest struct {
		Amount formValue `json:"amount"`
	}

	peopleRequest struct {
		People formValue `json:"people"`
	}

	// advancedRequest toggles when Advanced is omitted.
	advancedRequest struct {
		Advanced *bool `json:"advanced"`
	}

	percentageRequest struct {
		Value formValue `json:"value"`
	}

	selectionRequest struct {
		Selected bool `json:"selected"`
	}
)

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(chi.URLParam(r, name)))
}

func int64Param(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, name)), 10, 64)
}

// sanitizeInput removes control characters except tab. Surrounding spaces
// are kept; category names are stored as typed.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}
