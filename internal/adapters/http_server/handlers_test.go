package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	server "vayada_admin/internal/adapters/http_server"
	"vayada_admin/internal/adapters/vayada"
	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
)

type upstream struct {
	mu        sync.Mutex
	auth      []string
	usersCode int
	hits      map[string]int
}

func (u *upstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/users", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.auth = append(u.auth, r.Header.Get("Authorization"))
		code := u.usersCode
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if code != 0 {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(domain.UsersPage{
			Users: []domain.User{{ID: "u-1", Email: "hotel1@example.com", Type: domain.RoleHotel, Status: domain.StatusVerified}},
			Total: 47, Page: 1, PageSize: 20, TotalPages: 3,
		})
	})
	mux.HandleFunc("GET /marketplace/listings", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.hits[r.URL.Path]++
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.MarketplaceListing{{ID: "ml-1", Name: "Deluxe Suite"}})
	})
	return mux
}

func newGateway(t *testing.T, up *upstream) http.Handler {
	t.Helper()
	if up.hits == nil {
		up.hits = map[string]int{}
	}
	backend := httptest.NewServer(up.handler())
	t.Cleanup(backend.Close)

	client, err := vayada.New(backend.URL, vayada.WithRetries(0))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	users := app.NewUsersService(client, nil)
	srv := server.New(5 * time.Second)
	srv.MountHandlers(&server.Handlers{
		Users:          users,
		Collaborations: app.NewCollaborationsService(client),
		Marketplace:    app.NewMarketplaceService(client, nil, 0),
		Stats:          app.NewStatsService(users),
	})
	return srv.Mux()
}

func TestHealthz(t *testing.T) {
	h := newGateway(t, &upstream{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestListUsers_ForwardsBearer(t *testing.T) {
	up := &upstream{}
	h := newGateway(t, up)

	req := httptest.NewRequest(http.MethodGet, "/v1/users?type=hotel&page=1", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page domain.UsersPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 47 || page.TotalPages != 3 || len(page.Users) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	up.mu.Lock()
	defer up.mu.Unlock()
	if len(up.auth) != 1 || up.auth[0] != "Bearer admin-token" {
		t.Fatalf("token not forwarded: %v", up.auth)
	}
}

func TestListUsers_404BecomesProblem(t *testing.T) {
	h := newGateway(t, &upstream{usersCode: http.StatusNotFound})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/problem+json") {
		t.Fatalf("unexpected content type %q", ct)
	}
	var p map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &p)
	if p["detail"] != app.MsgNotConfigured {
		t.Fatalf("unexpected problem %v", p)
	}
}

func TestListUsers_BadQuery(t *testing.T) {
	h := newGateway(t, &upstream{})
	for _, target := range []string{"/v1/users?page=0", "/v1/users?page_size=500", "/v1/users?status=archived", "/v1/collaborations?status=lost"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestMarketplaceListings_ETag(t *testing.T) {
	h := newGateway(t, &upstream{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/marketplace/listings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/marketplace/listings", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
}

func TestAudit_NotConfigured(t *testing.T) {
	h := newGateway(t, &upstream{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/audit", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUnknownRoute_IsProblem(t *testing.T) {
	h := newGateway(t, &upstream{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/hotels", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}
