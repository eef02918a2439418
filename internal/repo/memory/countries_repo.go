package memory

import (
	"context"

	"github.com/geocoder89/signup/internal/domain/country"
)

// DefaultCountries seeds both the in-memory repo and an empty database.
var DefaultCountries = []country.Country{
	{Value: "ar", Label: "Argentina"},
	{Value: "bo", Label: "Bolivia"},
	{Value: "cl", Label: "Chile"},
	{Value: "co", Label: "Colombia"},
	{Value: "cr", Label: "Costa Rica"},
	{Value: "cu", Label: "Cuba"},
	{Value: "ec", Label: "Ecuador"},
	{Value: "sv", Label: "El Salvador"},
	{Value: "es", Label: "España"},
	{Value: "us", Label: "Estados Unidos"},
	{Value: "gt", Label: "Guatemala"},
	{Value: "hn", Label: "Honduras"},
	{Value: "mx", Label: "México"},
	{Value: "ni", Label: "Nicaragua"},
	{Value: "pa", Label: "Panamá"},
	{Value: "py", Label: "Paraguay"},
	{Value: "pe", Label: "Perú"},
	{Value: "pr", Label: "Puerto Rico"},
	{Value: "do", Label: "República Dominicana"},
	{Value: "uy", Label: "Uruguay"},
	{Value: "ve", Label: "Venezuela"},
}

// CountriesRepo serves a fixed list; it is never mutated after construction.
type CountriesRepo struct {
	items []country.Country
}

func NewCountriesRepo(items []country.Country) *CountriesRepo {
	if items == nil {
		items = DefaultCountries
	}

	cp := make([]country.Country, len(items))
	copy(cp, items)

	return &CountriesRepo{items: cp}
}

func (r *CountriesRepo) List(_ context.Context) ([]country.Country, error) {
	out := make([]country.Country, len(r.items))
	copy(out, r.items)

	return out, nil
}
