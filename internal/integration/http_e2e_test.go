package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	httpserver "vayada_admin/internal/adapters/http_server"
	redisad "vayada_admin/internal/adapters/redis"
	"vayada_admin/internal/adapters/vayada"
	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
)

// ---------- in-memory backend ----------

type backend struct {
	mu       sync.Mutex
	next     int
	users    []domain.User
	listings []domain.Listing
	hits     map[string]int
	auth     []string
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	track := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.hits[r.Pattern]++
			b.auth = append(b.auth, r.Header.Get("Authorization"))
			b.mu.Unlock()
			h(w, r)
		}
	}

	mux.HandleFunc("POST /admin/users", track(func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.next++
		u := domain.User{ID: fmt.Sprintf("u-%d", b.next), Name: req.Name, Email: req.Email, Type: req.Type, Status: req.Status}
		b.users = append(b.users, u)
		reply(w, http.StatusCreated, domain.CreateUserResponse{Message: "User created successfully", User: u})
	}))
	mux.HandleFunc("GET /admin/users", track(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		typ := r.URL.Query().Get("type")
		out := []domain.User{}
		for _, u := range b.users {
			if typ == "" || string(u.Type) == typ {
				out = append(out, u)
			}
		}
		reply(w, http.StatusOK, domain.UsersPage{Users: out, Total: len(out), Page: 1, PageSize: len(out)})
	}))
	mux.HandleFunc("PUT /admin/users/{id}/profile/{kind}", track(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]string{"message": "Profile updated"})
	}))
	mux.HandleFunc("POST /admin/users/{id}/social-media", track(func(w http.ResponseWriter, r *http.Request) {
		var in domain.PlatformInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		reply(w, http.StatusCreated, domain.SocialMediaPlatform{ID: "p", UserID: r.PathValue("id"), Platform: in.Platform, Handle: in.Handle})
	}))
	mux.HandleFunc("POST /admin/users/{id}/listings", track(func(w http.ResponseWriter, r *http.Request) {
		var in domain.ListingInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.next++
		l := domain.Listing{ID: fmt.Sprintf("l-%d", b.next), UserID: r.PathValue("id"), Name: in.Name, Location: in.Location, Status: in.Status}
		b.listings = append(b.listings, l)
		reply(w, http.StatusCreated, l)
	}))
	mux.HandleFunc("GET /marketplace/listings", track(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []domain.MarketplaceListing{}
		for _, l := range b.listings {
			if l.Status == domain.ListingVerified {
				out = append(out, domain.MarketplaceListing{ID: l.ID, HotelProfileID: l.UserID, Name: l.Name, Location: l.Location, Status: string(l.Status)})
			}
		}
		reply(w, http.StatusOK, out)
	}))
	return mux
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

// ---------- memory audit log ----------

type memLog struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (m *memLog) Record(_ context.Context, e domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memLog) Recent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.AuditEntry(nil), m.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fixedToken string

func (t fixedToken) Token(context.Context) (string, bool) { return string(t), true }

// ---------- the test ----------

func TestSeedThenBrowseThroughGateway(t *testing.T) {
	be := &backend{hits: map[string]int{}}
	upstream := httptest.NewServer(be.handler())
	t.Cleanup(upstream.Close)

	seedClient, err := vayada.New(upstream.URL,
		vayada.WithTokenSource(fixedToken("seed-token")), vayada.WithRetries(0), vayada.WithRateLimit(1000))
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	journal := &memLog{}
	auditor := app.NewAuditor(journal, func() string { return "admin@example.com" })

	seeder := app.NewSeedService(
		app.NewUsersService(seedClient, auditor),
		app.NewListingsService(seedClient, auditor),
		app.NewPlatformsService(seedClient, auditor),
		3,
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sum, err := seeder.Run(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	hotels, creators := len(app.DemoHotels), len(app.DemoCreators)
	if sum.Hotels != hotels || sum.Creators != creators || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	gwClient, err := vayada.New(upstream.URL, vayada.WithRetries(0), vayada.WithRateLimit(1000))
	if err != nil {
		t.Fatalf("gateway client: %v", err)
	}
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	users := app.NewUsersService(gwClient, auditor)
	srv := httpserver.New(5 * time.Second)
	srv.MountHandlers(&httpserver.Handlers{
		Users:          users,
		Collaborations: app.NewCollaborationsService(gwClient),
		Marketplace:    app.NewMarketplaceService(gwClient, redisad.NewFromClient(rc), time.Minute),
		Stats:          app.NewStatsService(users),
		Audit:          auditor,
	})
	gw := httptest.NewServer(srv.Mux())
	t.Cleanup(gw.Close)

	get := func(path string, out any) {
		t.Helper()
		req, _ := http.NewRequest(http.MethodGet, gw.URL+path, nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}

	// Users created by the seeder are visible through the gateway.
	var page domain.UsersPage
	get("/v1/users?type=creator", &page)
	if page.Total != creators || len(page.Users) != creators {
		t.Fatalf("expected %d creators, got total=%d len=%d", creators, page.Total, len(page.Users))
	}
	be.mu.Lock()
	lastAuth := be.auth[len(be.auth)-1]
	be.mu.Unlock()
	if lastAuth != "Bearer admin-token" {
		t.Fatalf("caller token not forwarded, got %q", lastAuth)
	}

	// Only listings from the first hotels are verified, so only those reach the marketplace.
	var listings []domain.MarketplaceListing
	get("/v1/marketplace/listings", &listings)
	if want := sum.Listings * 3 / hotels; len(listings) != want {
		t.Fatalf("expected %d verified listings, got %d", want, len(listings))
	}
	get("/v1/marketplace/listings", &listings)
	if n := be.count("GET /marketplace/listings"); n != 1 {
		t.Fatalf("second read should be served from redis, backend saw %d calls", n)
	}
	if !mr.Exists(redisad.KeyPrefix + "marketplace:listings") {
		t.Fatalf("expected the marketplace listings snapshot in redis")
	}

	// Every seeded mutation is journaled and readable through the gateway.
	var entries []domain.AuditEntry
	get("/v1/audit?limit=500", &entries)
	want := sum.Hotels + sum.Creators + // user.create
		sum.Hotels + sum.Creators + // profile updates
		sum.Listings + sum.Platforms
	if len(entries) != want {
		t.Fatalf("expected %d audit entries, got %d", want, len(entries))
	}
	for _, e := range entries {
		if e.Actor != "admin@example.com" {
			t.Fatalf("unexpected actor %q", e.Actor)
		}
	}
}
