package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// Validator is implemented by request DTOs. An empty result means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the JSON body into dest, rejecting unknown fields, and
// runs dest.Validate when implemented. On failure it writes a 400 and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

// CheckLength appends a message to errs when value is longer than max runes.
func CheckLength(errs []string, field, value string, max int) []string {
	if utf8.RuneCountInString(value) > max {
		return append(errs, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return errs
}

// CheckLayout appends a message to errs when value does not parse with layout.
func CheckLayout(errs []string, field, value, layout, human string) []string {
	if _, err := time.Parse(layout, value); err != nil {
		return append(errs, fmt.Sprintf("%s must be %s", field, human))
	}
	return errs
}
