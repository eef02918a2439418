package signup

import (
	"fmt"
	"strings"
)

// Kind identifies which rule a field failed.
type Kind string

const (
	KindTooShort          Kind = "too_short"
	KindInvalidFormat     Kind = "invalid_format"
	KindPasswordMinLength Kind = "weak_password.min_length"
	KindPasswordUpper     Kind = "weak_password.needs_upper"
	KindPasswordLower     Kind = "weak_password.needs_lower"
	KindPasswordDigit     Kind = "weak_password.needs_digit"
	KindMismatch          Kind = "mismatch"
	KindRequired          Kind = "required"
	KindMustAccept        Kind = "must_accept"
)

// FieldError is a field-scoped validation failure.
type FieldError struct {
	Field string `json:"field"`
	Kind  Kind   `json:"kind"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + string(e.Kind)
}

// ValidationErrors is the error form of an invalid Result.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, e.Error())
	}

	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Result holds at most one FieldError per field path.
type Result struct {
	errs map[string]FieldError
}

func (r Result) Valid() bool {
	return len(r.errs) == 0
}

func (r Result) Get(field string) (FieldError, bool) {
	e, ok := r.errs[field]
	return e, ok
}

// Errors returns the failures in field order.
func (r Result) Errors() []FieldError {
	out := make([]FieldError, 0, len(r.errs))

	for _, f := range Fields {
		if e, ok := r.errs[f]; ok {
			out = append(out, e)
		}
	}

	return out
}

func (r Result) Kinds() map[string]Kind {
	out := make(map[string]Kind, len(r.errs))
	for f, e := range r.errs {
		out[f] = e.Kind
	}
	return out
}

// Messages renders each failure with the given catalog.
func (r Result) Messages(m Messages) map[string]string {
	out := make(map[string]string, len(r.errs))
	for f, e := range r.errs {
		out[f] = m.Message(e.Kind)
	}
	return out
}

// Err returns nil for a valid result.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return ValidationErrors(r.Errors())
}

func (r Result) only(field string) Result {
	e, ok := r.errs[field]
	if !ok {
		return Result{}
	}

	return Result{errs: map[string]FieldError{field: e}}
}
