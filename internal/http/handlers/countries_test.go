package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/signup/internal/domain/country"
	"github.com/geocoder89/signup/internal/http/handlers"
)

type fakeCountryLister struct {
	listFn func(ctx context.Context) ([]country.Country, error)
}

func (f *fakeCountryLister) List(ctx context.Context) ([]country.Country, error) {
	return f.listFn(ctx)
}

func TestListCountries(t *testing.T) {
	lister := &fakeCountryLister{listFn: func(context.Context) ([]country.Country, error) {
		return []country.Country{{Value: "es", Label: "España"}, {Value: "mx", Label: "México"}}, nil
	}}

	r := setupRouter(http.MethodGet, "/api/countries", handlers.NewCountriesHandler(lister, quietLogger()).List)

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var got []country.Country
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1].Label != "México" {
		t.Fatalf("unexpected body: %+v", got)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set("If-None-Match", "W/"+etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}
}

func TestListCountriesEmptyIsArray(t *testing.T) {
	lister := &fakeCountryLister{listFn: func(context.Context) ([]country.Country, error) { return nil, nil }}

	r := setupRouter(http.MethodGet, "/api/countries", handlers.NewCountriesHandler(lister, quietLogger()).List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/countries", nil))

	if w.Body.String() != "[]" {
		t.Fatalf("expected empty array, got %s", w.Body.String())
	}
}

func TestListCountriesUnavailable(t *testing.T) {
	lister := &fakeCountryLister{listFn: func(context.Context) ([]country.Country, error) {
		return nil, country.ErrSourceUnavailable
	}}

	r := setupRouter(http.MethodGet, "/api/countries", handlers.NewCountriesHandler(lister, quietLogger()).List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/countries", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var resp apiErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "countries_unavailable" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
}

func TestReadyz(t *testing.T) {
	h := handlers.NewHealthHandler(map[string]handlers.Check{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("down") },
	})

	r := setupRouter(http.MethodGet, "/readyz", h.Readyz)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "not_ready" || body.Checks["postgres"] != "up" || body.Checks["redis"] != "down" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
