package countries

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/geocoder89/signup/internal/cache"
	"github.com/geocoder89/signup/internal/domain/country"
)

const snapshotKey = "countries:list:v1"

type Store interface {
	List(ctx context.Context) ([]country.Country, error)
}

type Snapshots interface {
	Load(ctx context.Context, key string) ([]country.Country, bool, error)
	Save(ctx context.Context, key string, list []country.Country, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Recorder interface {
	CountryCacheResult(layer, result string)
}

type Config struct {
	TTL       time.Duration
	Snapshots Snapshots // optional shared layer (Redis)
	Recorder  Recorder
	Logger    *slog.Logger
	Backoff   func(attempt int) time.Duration
}

// Service serves the country list through a local TTL cache, an optional
// shared snapshot, and finally the store.
type Service struct {
	store   Store
	snaps   Snapshots
	rec     Recorder
	log     *slog.Logger
	local   *cache.Cache[[]country.Country]
	backoff func(int) time.Duration

	mu       sync.RWMutex
	lastGood []country.Country
}

func New(store Store, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Backoff == nil {
		cfg.Backoff = ExponentialBackoff
	}

	return &Service{
		store:   store,
		snaps:   cfg.Snapshots,
		rec:     cfg.Recorder,
		log:     cfg.Logger,
		local:   cache.New[[]country.Country](cfg.TTL),
		backoff: cfg.Backoff,
	}
}

func (s *Service) List(ctx context.Context) ([]country.Country, error) {
	if list, ok := s.local.Get(snapshotKey); ok {
		s.record("local", "hit")
		return list, nil
	}
	s.record("local", "miss")

	if s.snaps != nil {
		list, ok, err := s.snaps.Load(ctx, snapshotKey)
		switch {
		case err != nil:
			s.record("redis", "error")
			s.log.WarnContext(ctx, "country snapshot load failed", "err", err)
		case ok:
			s.record("redis", "hit")
			s.remember(list)
			return list, nil
		default:
			s.record("redis", "miss")
		}
	}

	list, err := s.store.List(ctx)
	if err != nil {
		s.record("store", "error")
		return nil, fmt.Errorf("%w: %w", country.ErrSourceUnavailable, err)
	}
	s.record("store", "hit")

	s.remember(list)

	if s.snaps != nil {
		err := s.snaps.Save(ctx, snapshotKey, list, s.local.TTL())
		if err != nil {
			s.log.WarnContext(ctx, "country snapshot save failed", "err", err)
		}
	}

	return list, nil
}

// Permitted never fails. When the source is down it falls back to the last
// list it saw, or an empty set, which makes the country field fail validation.
func (s *Service) Permitted(ctx context.Context) country.Set {
	list, err := s.List(ctx)
	if err == nil {
		return country.NewSet(list)
	}

	s.log.WarnContext(ctx, "country list unavailable, using last snapshot", "err", err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return country.NewSet(s.lastGood)
}

// Warm fetches the list once, retrying with backoff until it succeeds or ctx ends.
func (s *Service) Warm(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		list, err := s.List(ctx)
		if err == nil {
			s.log.InfoContext(ctx, "country list loaded", "count", len(list), "attempts", attempt+1)
			return nil
		}

		delay := s.backoff(attempt)
		s.log.WarnContext(ctx, "country list fetch failed", "err", err, "attempt", attempt+1, "retry_in", delay.String())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (s *Service) Invalidate(ctx context.Context) error {
	s.local.Delete(snapshotKey)

	if s.snaps == nil {
		return nil
	}

	return s.snaps.Delete(ctx, snapshotKey)
}

// Reload drops cached snapshots and refetches the list each time a signal
// arrives, until ctx ends or signals is closed.
func (s *Service) Reload(ctx context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}

			if err := s.Invalidate(ctx); err != nil {
				s.log.WarnContext(ctx, "country snapshot invalidate failed", "err", err)
			}

			list, err := s.List(ctx)
			if err != nil {
				s.log.WarnContext(ctx, "country list reload failed", "signal", sig.String(), "err", err)
				continue
			}

			s.log.InfoContext(ctx, "country list reloaded", "signal", sig.String(), "count", len(list))
		}
	}
}

func (s *Service) remember(list []country.Country) {
	s.local.Set(snapshotKey, list)

	s.mu.Lock()
	s.lastGood = list
	s.mu.Unlock()
}

func (s *Service) record(layer, result string) {
	if s.rec != nil {
		s.rec.CountryCacheResult(layer, result)
	}
}
