package signup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Field paths, in evaluation and display order.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldCountry         = "country"
	FieldTerms           = "terms"
)

var Fields = []string{
	FieldName,
	FieldEmail,
	FieldPassword,
	FieldConfirmPassword,
	FieldCountry,
	FieldTerms,
}

var (
	ErrMalformedBody = errors.New("registration body must be a JSON object")
	ErrUnknownField  = errors.New("unknown registration field")
)

// Input is the candidate record built from the form at submit time.
// It is validated and then discarded; nothing here is persisted.
type Input struct {
	Name            string `json:"name" validate:"trimmed_min=2"`
	Email           string `json:"email" validate:"email,dotted_domain"`
	Password        string `json:"password" validate:"min=8,has_upper,has_lower,has_digit"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	Country         string `json:"country" validate:"required,permitted_country"`
	Terms           bool   `json:"terms" validate:"accepted"`
}

// Decode reads a registration body leniently: a field of the wrong JSON type
// is dropped so that it fails its own rule instead of rejecting the request.
func Decode(raw []byte) (Input, error) {
	var fields map[string]json.RawMessage

	err := json.Unmarshal(bytes.TrimSpace(raw), &fields)
	if err != nil {
		return Input{}, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	if fields == nil {
		return Input{}, ErrMalformedBody
	}

	in := Input{
		Name:            decodeString(fields[FieldName]),
		Email:           decodeString(fields[FieldEmail]),
		Password:        decodeString(fields[FieldPassword]),
		ConfirmPassword: decodeString(fields[FieldConfirmPassword]),
		Country:         decodeString(fields[FieldCountry]),
	}

	if raw, ok := fields[FieldTerms]; ok {
		var accepted bool
		if json.Unmarshal(raw, &accepted) == nil {
			in.Terms = accepted
		}
	}

	return in, nil
}

func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}

	return s
}

func knownField(field string) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}
