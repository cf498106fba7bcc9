package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"vayada_admin/internal/adapters/vayada"
	"vayada_admin/internal/domain"
)

// fakeBackend is an in-memory stand-in for the marketplace admin API.
type fakeBackend struct {
	mu        sync.Mutex
	nextID    int
	users     map[string]domain.User
	platforms map[string][]domain.SocialMediaPlatform
	listings  map[string][]domain.Listing
	queries   []url.Values
	calls     map[string]int
	failEmail map[string]bool
	// listingCap rejects listing creates past this many for a location.
	listingCap map[string]int
	login      domain.LoginResponse
	tokens     []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:      map[string]domain.User{},
		platforms:  map[string][]domain.SocialMediaPlatform{},
		listings:   map[string][]domain.Listing{},
		calls:      map[string]int{},
		failEmail:  map[string]bool{},
		listingCap: map[string]int{},
	}
}

func (f *fakeBackend) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) count(r *http.Request) {
	f.mu.Lock()
	f.calls[r.Method+" "+r.URL.Path]++
	f.tokens = append(f.tokens, r.Header.Get("Authorization"))
	f.mu.Unlock()
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		writeJSON(w, http.StatusOK, f.login)
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, f.login)
	})

	mux.HandleFunc("GET /admin/users", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		q := r.URL.Query()
		f.queries = append(f.queries, q)
		var out []domain.User
		for _, u := range f.users {
			if s := q.Get("status"); s != "" && string(u.Status) != s {
				continue
			}
			if t := q.Get("type"); t != "" && string(u.Type) != t {
				continue
			}
			out = append(out, u)
		}
		size, _ := strconv.Atoi(q.Get("page_size"))
		writeJSON(w, http.StatusOK, domain.UsersPage{Users: out, Total: len(out), Page: 1, PageSize: size})
	})
	mux.HandleFunc("POST /admin/users", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		var req domain.CreateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failEmail[req.Email] {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"detail": []any{map[string]any{"loc": []any{"body", "email"}, "msg": "already registered"}},
			})
			return
		}
		u := domain.User{ID: f.id("u"), Name: req.Name, Email: req.Email, Type: req.Type, Status: req.Status}
		f.users[u.ID] = u
		writeJSON(w, http.StatusCreated, domain.CreateUserResponse{Message: "created", User: u})
	})
	mux.HandleFunc("GET /admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.users[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("PUT /admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		var req domain.UpdateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.users[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "User not found"})
			return
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Status != nil {
			u.Status = *req.Status
		}
		f.users[u.ID] = u
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("PATCH /admin/users/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		u := f.users[r.PathValue("id")]
		old := u.Status
		u.Status = domain.UserStatus(body["status"])
		f.users[u.ID] = u
		writeJSON(w, http.StatusOK, domain.StatusChange{Message: body["reason"], UserID: u.ID, OldStatus: old, NewStatus: u.Status})
	})
	mux.HandleFunc("DELETE /admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		delete(f.users, r.PathValue("id"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /admin/users/{id}/profile/{kind}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})

	mux.HandleFunc("GET /admin/users/{id}/social-media", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		out := f.platforms[r.PathValue("id")]
		if out == nil {
			out = []domain.SocialMediaPlatform{}
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /admin/users/{id}/social-media", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		var in domain.PlatformInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		uid := r.PathValue("id")
		p := domain.SocialMediaPlatform{
			ID: f.id("p"), UserID: uid, Platform: in.Platform, Handle: in.Handle, URL: in.URL,
			FollowerCount: in.FollowerCount, EngagementRate: in.EngagementRate, Verified: in.Verified,
		}
		f.platforms[uid] = append(f.platforms[uid], p)
		writeJSON(w, http.StatusCreated, p)
	})
	mux.HandleFunc("GET /admin/users/{id}/social-media/{pid}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.platforms[r.PathValue("id")] {
			if p.ID == r.PathValue("pid") {
				writeJSON(w, http.StatusOK, p)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Platform not found"})
	})
	mux.HandleFunc("PUT /admin/users/{id}/social-media/{pid}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		var in domain.PlatformInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		ps := f.platforms[r.PathValue("id")]
		for i := range ps {
			if ps[i].ID != r.PathValue("pid") {
				continue
			}
			if in.Handle != "" {
				ps[i].Handle = in.Handle
			}
			if in.FollowerCount != nil {
				ps[i].FollowerCount = in.FollowerCount
			}
			if in.EngagementRate != nil {
				ps[i].EngagementRate = in.EngagementRate
			}
			writeJSON(w, http.StatusOK, ps[i])
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Platform not found"})
	})
	mux.HandleFunc("DELETE /admin/users/{id}/social-media/{pid}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		uid, pid := r.PathValue("id"), r.PathValue("pid")
		kept := f.platforms[uid][:0]
		for _, p := range f.platforms[uid] {
			if p.ID != pid {
				kept = append(kept, p)
			}
		}
		f.platforms[uid] = kept
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /admin/users/{id}/listings", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.queries = append(f.queries, r.URL.Query())
		ls := f.listings[r.PathValue("id")]
		writeJSON(w, http.StatusOK, domain.ListingsPage{Listings: ls, Total: len(ls)})
	})
	mux.HandleFunc("POST /admin/users/{id}/listings", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		var in domain.ListingInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		uid := r.PathValue("id")
		if limit, ok := f.listingCap[in.Location]; ok && len(f.listings[uid]) >= limit {
			writeJSON(w, http.StatusConflict, map[string]any{"detail": "listing limit reached"})
			return
		}
		l := domain.Listing{ID: f.id("l"), UserID: uid, Name: in.Name, Location: in.Location,
			AccommodationType: in.AccommodationType, Status: in.Status, Images: in.Images}
		f.listings[uid] = append(f.listings[uid], l)
		writeJSON(w, http.StatusCreated, l)
	})

	mux.HandleFunc("GET /admin/users/{id}/listings/{lid}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, l := range f.listings[r.PathValue("id")] {
			if l.ID == r.PathValue("lid") {
				writeJSON(w, http.StatusOK, l)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Listing not found"})
	})
	mux.HandleFunc("PUT /admin/users/{id}/listings/{lid}", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		var in domain.ListingInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		ls := f.listings[r.PathValue("id")]
		for i := range ls {
			if ls[i].ID != r.PathValue("lid") {
				continue
			}
			if in.Name != "" {
				ls[i].Name = in.Name
			}
			if in.Status != "" {
				ls[i].Status = in.Status
			}
			writeJSON(w, http.StatusOK, ls[i])
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Listing not found"})
	})
	mux.HandleFunc("GET /admin/collaborations", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Query())
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, domain.CollaborationsPage{Collaborations: []domain.Collaboration{{ID: "c-1", Status: domain.CollaborationStatus("pending")}}, Total: 1})
	})

	mux.HandleFunc("GET /marketplace/listings", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		writeJSON(w, http.StatusOK, []domain.MarketplaceListing{{ID: "ml-1", HotelName: "Grand Paradise Resort", Name: "Deluxe Suite"}})
	})
	mux.HandleFunc("GET /marketplace/creators", func(w http.ResponseWriter, r *http.Request) {
		f.count(r)
		writeJSON(w, http.StatusOK, []domain.MarketplaceCreator{{ID: "mc-1", Name: "Sarah Johnson", AudienceSize: 150000}})
	})
	return mux
}

func (f *fakeBackend) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeBackend) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

// start serves f and returns a client pointed at it.
func (f *fakeBackend) start(t *testing.T, opts ...vayada.Option) *vayada.Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	opts = append([]vayada.Option{vayada.WithRetries(0), vayada.WithRateLimit(1000)}, opts...)
	c, err := vayada.New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func (f *fakeBackend) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.tokens...)
}

type staticToken string

func (s staticToken) Token(context.Context) (string, bool) { return string(s), s != "" }

// statusServer answers every request with status and body.
func statusServer(t *testing.T, status int, body string) *vayada.Client {
	t.Helper()
	return statusServerWith(t, status, body)
}

func statusServerWith(t *testing.T, status int, body string, opts ...vayada.Option) *vayada.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c, err := vayada.New(srv.URL, append([]vayada.Option{vayada.WithRetries(0)}, opts...)...)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}
