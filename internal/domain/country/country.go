package country

import (
	"errors"
)

// Country is one selectable entry of the country picker.
type Country struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var ErrSourceUnavailable = errors.New("country source unavailable")

// Set is the permitted-values set for the country field.
// The zero value is an empty set and contains nothing.
type Set struct {
	values map[string]struct{}
}

func NewSet(list []Country) Set {
	values := make(map[string]struct{}, len(list))

	for _, c := range list {
		// values are kept as stored so anything the list offers is accepted back
		if c.Value == "" {
			continue
		}
		values[c.Value] = struct{}{}
	}

	return Set{values: values}
}

// SetOf builds a set straight from machine values.
func SetOf(values ...string) Set {
	list := make([]Country, 0, len(values))
	for _, v := range values {
		list = append(list, Country{Value: v})
	}

	return NewSet(list)
}

func (s Set) Contains(value string) bool {
	if value == "" || s.values == nil {
		return false
	}

	_, ok := s.values[value]
	return ok
}

func (s Set) Len() int {
	return len(s.values)
}
