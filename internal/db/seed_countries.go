package db

import (
	"context"
	"fmt"

	"github.com/geocoder89/signup/internal/domain/country"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const countriesSchema = `
CREATE TABLE IF NOT EXISTS countries (
	value   TEXT PRIMARY KEY,
	label   TEXT NOT NULL,
	enabled BOOLEAN NOT NULL DEFAULT TRUE
)`

// EnsureCountries creates the countries table and inserts any seed rows that
// are missing. Existing rows, including disabled ones, are left untouched.
func EnsureCountries(ctx context.Context, pool *pgxpool.Pool, seed []country.Country) error {
	_, err := pool.Exec(ctx, countriesSchema)
	if err != nil {
		return fmt.Errorf("create countries table: %w", err)
	}

	if len(seed) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range seed {
		batch.Queue(
			`INSERT INTO countries (value, label) VALUES ($1, $2)
			ON CONFLICT (value) DO NOTHING`,
			c.Value, c.Label,
		)
	}

	err = pool.SendBatch(ctx, batch).Close()
	if err != nil {
		return fmt.Errorf("seed countries: %w", err)
	}

	return nil
}
