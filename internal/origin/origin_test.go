package origin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSplitWithAndWithoutPrefix(t *testing.T) {
	id, name := Split("gitlab:acme/widgets")
	if id != "gitlab" || name != "acme/widgets" {
		t.Fatalf("Split() = %q, %q", id, name)
	}
	id, name = Split("acme/widgets")
	if id != DefaultOriginID || name != "acme/widgets" {
		t.Fatalf("Split() = %q, %q", id, name)
	}
}

func TestResolveUnknownOriginErrors(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.Resolve("bitbucket", "acme/widgets", nil); err == nil {
		t.Fatal("expected an error for an unknown origin")
	}
}

func TestResolveOverrideShortCircuits(t *testing.T) {
	r := NewRegistry(nil)
	r.SetOverride(func(templateName string, config map[string]any) (FetchTarget, error) {
		return FetchTarget{URL: "https://example.com/" + templateName}, nil
	})
	target, err := r.Resolve("github", "acme/widgets", nil)
	if err != nil {
		t.Fatal(err)
	}
	if target.URL != "https://example.com/acme/widgets" {
		t.Fatalf("target = %+v", target)
	}
}

func TestFetchUsesCacheWhenPresent(t *testing.T) {
	var hit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.Write([]byte("archive"))
	}))
	defer srv.Close()

	cache := &fakeCache{data: map[string][]byte{srv.URL: []byte("cached")}}
	data, err := Fetch(context.Background(), srv.Client(), FetchTarget{URL: srv.URL}, cache)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "cached" {
		t.Fatalf("data = %q, want cache hit", data)
	}
	if hit {
		t.Fatal("expected the server not to be hit on a cache hit")
	}
}

func TestFetchPopulatesCacheOnMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive bytes"))
	}))
	defer srv.Close()

	cache := &fakeCache{data: map[string][]byte{}}
	data, err := Fetch(context.Background(), srv.Client(), FetchTarget{URL: srv.URL}, cache)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "archive bytes" {
		t.Fatalf("data = %q", data)
	}
	if cached, ok := cache.Get(srv.URL); !ok || string(cached) != "archive bytes" {
		t.Fatalf("expected the fetch to populate the cache, got %q, %v", cached, ok)
	}
}

func TestFetchErrorsOnNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.Client(), FetchTarget{URL: srv.URL}, nil); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

type fakeCache struct {
	data map[string][]byte
}

func (f *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Set(key string, data []byte) error {
	f.data[key] = data
	return nil
}
