package redissnap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/signup/internal/domain/country"
	"github.com/redis/go-redis/v9"
)

// Store keeps JSON snapshots of the country list in Redis so that every API
// replica serves the same list without hitting the database.
type Store struct {
	rdb redis.Cmdable
}

func New(rdb redis.Cmdable) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Load(ctx context.Context, key string) ([]country.Country, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var list []country.Country
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	return list, true, nil
}

func (s *Store) Save(ctx context.Context, key string, list []country.Country, ttl time.Duration) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}

	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
