package countries_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/geocoder89/signup/internal/countries"
	"github.com/geocoder89/signup/internal/domain/country"
)

type fakeStore struct {
	mu     sync.Mutex
	calls  int
	listFn func(call int) ([]country.Country, error)
}

func (f *fakeStore) List(_ context.Context) ([]country.Country, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	return f.listFn(call)
}

func (f *fakeStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSnapshots struct {
	data    map[string][]country.Country
	loadErr error
	deleted bool
}

func (f *fakeSnapshots) Load(_ context.Context, key string) ([]country.Country, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	list, ok := f.data[key]
	return list, ok, nil
}

func (f *fakeSnapshots) Save(_ context.Context, key string, list []country.Country, _ time.Duration) error {
	f.data[key] = list
	return nil
}

func (f *fakeSnapshots) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	f.deleted = true
	return nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen map[string]int
}

func (f *fakeRecorder) CountryCacheResult(layer, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = map[string]int{}
	}
	f.seen[layer+":"+result]++
}

var spain = []country.Country{{Value: "es", Label: "España"}}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListCachesLocally(t *testing.T) {
	store := &fakeStore{listFn: func(int) ([]country.Country, error) { return spain, nil }}
	rec := &fakeRecorder{}

	svc := countries.New(store, countries.Config{Logger: quietLogger(), Recorder: rec})

	for i := 0; i < 3; i++ {
		list, err := svc.List(context.Background())
		if err != nil || len(list) != 1 {
			t.Fatalf("List: %v %v", list, err)
		}
	}

	if store.Calls() != 1 {
		t.Fatalf("expected one store call, got %d", store.Calls())
	}
	if rec.seen["local:hit"] != 2 || rec.seen["store:hit"] != 1 {
		t.Fatalf("unexpected cache results: %v", rec.seen)
	}
}

func TestListUsesSharedSnapshot(t *testing.T) {
	store := &fakeStore{listFn: func(int) ([]country.Country, error) { return nil, errors.New("should not be called") }}
	snaps := &fakeSnapshots{data: map[string][]country.Country{"countries:list:v1": spain}}

	svc := countries.New(store, countries.Config{Logger: quietLogger(), Snapshots: snaps})

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 1 || list[0].Value != "es" {
		t.Fatalf("List: %v %v", list, err)
	}
	if store.Calls() != 0 {
		t.Fatalf("store should not be hit when a snapshot exists")
	}
}

func TestListFallsThroughBrokenSnapshot(t *testing.T) {
	store := &fakeStore{listFn: func(int) ([]country.Country, error) { return spain, nil }}
	snaps := &fakeSnapshots{data: map[string][]country.Country{}, loadErr: errors.New("redis down")}

	svc := countries.New(store, countries.Config{Logger: quietLogger(), Snapshots: snaps})

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("List: %v %v", list, err)
	}
}

func TestListSavesSnapshotAndInvalidate(t *testing.T) {
	store := &fakeStore{listFn: func(int) ([]country.Country, error) { return spain, nil }}
	snaps := &fakeSnapshots{data: map[string][]country.Country{}}

	svc := countries.New(store, countries.Config{Logger: quietLogger(), Snapshots: snaps})

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps.data["countries:list:v1"]) != 1 {
		t.Fatalf("expected snapshot to be saved")
	}

	if err := svc.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if !snaps.deleted {
		t.Fatalf("expected snapshot delete")
	}

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.Calls() != 2 {
		t.Fatalf("expected store to be hit again after invalidate, got %d calls", store.Calls())
	}
}

func TestListWrapsSourceError(t *testing.T) {
	store := &fakeStore{listFn: func(int) ([]country.Country, error) { return nil, errors.New("db down") }}

	svc := countries.New(store, countries.Config{Logger: quietLogger()})

	_, err := svc.List(context.Background())
	if !errors.Is(err, country.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestPermittedNeverFails(t *testing.T) {
	store := &fakeStore{listFn: func(int) ([]country.Country, error) { return nil, errors.New("db down") }}

	svc := countries.New(store, countries.Config{Logger: quietLogger()})

	set := svc.Permitted(context.Background())
	if set.Len() != 0 {
		t.Fatalf("expected empty set before any successful fetch")
	}
}

func TestPermittedKeepsLastGoodSnapshot(t *testing.T) {
	store := &fakeStore{listFn: func(call int) ([]country.Country, error) {
		if call == 1 {
			return spain, nil
		}
		return nil, errors.New("db down")
	}}

	svc := countries.New(store, countries.Config{Logger: quietLogger(), TTL: time.Nanosecond})

	if set := svc.Permitted(context.Background()); !set.Contains("es") {
		t.Fatalf("expected es after first fetch")
	}

	time.Sleep(time.Millisecond)

	if set := svc.Permitted(context.Background()); !set.Contains("es") {
		t.Fatalf("expected last good snapshot to be used")
	}
	if store.Calls() < 2 {
		t.Fatalf("expected a refetch after expiry")
	}
}

func TestWarmRetriesUntilSuccess(t *testing.T) {
	store := &fakeStore{listFn: func(call int) ([]country.Country, error) {
		if call < 3 {
			return nil, errors.New("not yet")
		}
		return spain, nil
	}}

	svc := countries.New(store, countries.Config{
		Logger:  quietLogger(),
		Backoff: func(int) time.Duration { return time.Millisecond },
	})

	if err := svc.Warm(context.Background()); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if store.Calls() != 3 {
		t.Fatalf("expected 3 attempts, got %d", store.Calls())
	}
}

func TestWarmStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{listFn: func(int) ([]country.Country, error) { return nil, errors.New("down") }}

	svc := countries.New(store, countries.Config{
		Logger:  quietLogger(),
		Backoff: func(int) time.Duration { return time.Hour },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := svc.Warm(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestExponentialBackoffIsCapped(t *testing.T) {
	if d := countries.ExponentialBackoff(0); d < 500*time.Millisecond || d >= 750*time.Millisecond {
		t.Fatalf("attempt 0 delay out of range: %s", d)
	}
	if d := countries.ExponentialBackoff(50); d < 30*time.Second || d >= 30*time.Second+250*time.Millisecond {
		t.Fatalf("capped delay out of range: %s", d)
	}
}

func TestReloadRefetchesOnSignal(t *testing.T) {
	mexico := []country.Country{{Value: "mx", Label: "México"}}
	store := &fakeStore{listFn: func(call int) ([]country.Country, error) {
		if call == 1 {
			return spain, nil
		}
		return mexico, nil
	}}

	svc := countries.New(store, countries.Config{Logger: quietLogger(), TTL: time.Hour})

	if !svc.Permitted(context.Background()).Contains("es") {
		t.Fatalf("expected initial list")
	}

	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Reload(context.Background(), signals)
	}()

	signals <- syscall.SIGHUP
	close(signals)
	<-done

	if store.Calls() != 2 {
		t.Fatalf("expected reload to hit the store, got %d calls", store.Calls())
	}

	set := svc.Permitted(context.Background())
	if !set.Contains("mx") || set.Contains("es") {
		t.Fatalf("expected reloaded list to replace the cached one")
	}
}

func TestReloadStopsWithContext(t *testing.T) {
	store := &fakeStore{listFn: func(int) ([]country.Country, error) { return spain, nil }}
	svc := countries.New(store, countries.Config{Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.Reload(ctx, make(chan os.Signal))

	if store.Calls() != 0 {
		t.Fatalf("cancelled reload should not fetch, got %d calls", store.Calls())
	}
}
