package postgres

import (
	"context"

	"github.com/geocoder89/signup/internal/domain/country"
	"github.com/geocoder89/signup/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CountriesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCountriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CountriesRepo {
	return &CountriesRepo{pool: pool, prom: prom}
}

func (repo *CountriesRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// List returns the selectable countries ordered by label. An empty table is
// not an error.
func (repo *CountriesRepo) List(ctx context.Context) ([]country.Country, error) {
	var out []country.Country

	err := repo.observe("countries.list", func() error {
		rows, err := repo.pool.Query(ctx,
			`SELECT value, label
			FROM countries
			WHERE enabled
			ORDER BY label ASC`,
		)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (country.Country, error) {
			var c country.Country
			err := row.Scan(&c.Value, &c.Label)
			return c, err
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []country.Country{}
	}

	return out, nil
}
