package shared_test

import (
	"testing"
	"time"

	"vayada_admin/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("SEARCH_DEBOUNCE_MS", "")
	t.Setenv("SHARED_CACHE", "")

	c := shared.Load()
	if c.APIURL != "http://localhost:8000" {
		t.Fatalf("unexpected API URL %q", c.APIURL)
	}
	if c.PageSize != 20 || c.SearchDebounce != 500*time.Millisecond || c.SessionBackend != "file" || c.SharedCache {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com/")
	t.Setenv("PAGE_SIZE", "-3")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("SEED_WORKERS", "4")
	t.Setenv("SHARED_CACHE", " Yes")

	c := shared.Load()
	if c.APIURL != "https://api.example.com" {
		t.Fatalf("trailing slash should be trimmed, got %q", c.APIURL)
	}
	if c.PageSize != 20 {
		t.Fatalf("non-positive page size should fall back, got %d", c.PageSize)
	}
	if c.SessionBackend != "redis" || c.SeedWorkers != 4 || !c.SharedCache {
		t.Fatalf("unexpected overrides: %+v", c)
	}
}
