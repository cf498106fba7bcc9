package app_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vayada_admin/internal/adapters/vayada"
	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
	"vayada_admin/internal/storage/session"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func adminLogin(token string, expiresIn int64) domain.LoginResponse {
	return domain.LoginResponse{
		ID: "a-1", Email: "admin@example.com", Name: "Admin", Type: domain.RoleAdmin,
		Status: domain.StatusVerified, AccessToken: token, TokenType: "bearer", ExpiresIn: expiresIn,
	}
}

func TestLogin_NonAdminRejected(t *testing.T) {
	f := newFakeBackend()
	f.login = adminLogin("hotel-token", 3600)
	f.login.Type = domain.RoleHotel
	store := session.NewMemory()
	auth := app.NewAuthService(f.start(t), store, app.WithClock(clock))
	ctx := context.Background()

	_, err := auth.Login(ctx, domain.Credentials{Email: "hotel1@example.com", Password: "password123"})
	if !errors.Is(err, domain.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if err.Error() != "Access denied. Admin account required." {
		t.Fatalf("unexpected message %q", err.Error())
	}
	kv, _ := store.GetAll(ctx, app.KeyToken, app.KeyUserType, app.KeyLoggedIn)
	if len(kv) != 0 {
		t.Fatalf("nothing may be persisted, got %v", kv)
	}
	if auth.IsLoggedIn(ctx) {
		t.Fatalf("IsLoggedIn must be false after rejected login")
	}
}

func TestLogin_AdminPersistsSession(t *testing.T) {
	f := newFakeBackend()
	f.login = adminLogin("admin-token", 3600)
	store := session.NewMemory()
	auth := app.NewAuthService(f.start(t), store, app.WithClock(clock))
	ctx := context.Background()

	if _, err := auth.Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "admin123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	kv, _ := store.GetAll(ctx, app.KeyToken, app.KeyExpiresAt, app.KeyUserType, app.KeyLoggedIn, app.KeyUser)
	want := strconv.FormatInt(fixedNow.Add(time.Hour).UnixMilli(), 10)
	if kv[app.KeyToken] != "admin-token" || kv[app.KeyExpiresAt] != want || kv[app.KeyUserType] != "admin" || kv[app.KeyLoggedIn] != "true" {
		t.Fatalf("unexpected persisted session %v", kv)
	}
	if !auth.IsLoggedIn(ctx) || !auth.IsAdmin() {
		t.Fatalf("expected logged-in admin")
	}
	id, ok := auth.Identity()
	if !ok || id.Email != "admin@example.com" || id.Type != domain.RoleAdmin {
		t.Fatalf("unexpected identity %+v", id)
	}

	// a second service over the same store sees the session after Hydrate
	other := app.NewAuthService(f.start(t), store, app.WithClock(clock))
	if other.IsLoggedIn(ctx) {
		t.Fatalf("session must not be visible before Hydrate")
	}
	if err := other.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if tok, ok := other.Token(ctx); !ok || tok != "admin-token" {
		t.Fatalf("expected hydrated token, got %q %v", tok, ok)
	}
}

func TestIsLoggedIn_ExpiredTokenPurged(t *testing.T) {
	store := session.NewMemory()
	ctx := context.Background()
	_ = store.SetAll(ctx, map[string]string{
		app.KeyToken:     "old",
		app.KeyExpiresAt: strconv.FormatInt(fixedNow.Add(-time.Second).UnixMilli(), 10),
		app.KeyUserID:    "a-1",
		app.KeyUserType:  "admin",
		app.KeyUser:      `{"id":"a-1","type":"admin"}`,
		app.KeyLoggedIn:  "true",
	})
	auth := app.NewAuthService(nil, store, app.WithClock(clock))
	if err := auth.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !auth.IsAdmin() {
		t.Fatalf("IsAdmin reads the role regardless of expiry")
	}

	if auth.IsLoggedIn(ctx) {
		t.Fatalf("expired token must not count as logged in")
	}
	kv, _ := store.GetAll(ctx, app.KeyToken, app.KeyExpiresAt, app.KeyUserID, app.KeyUserType, app.KeyUser, app.KeyLoggedIn)
	for _, k := range []string{app.KeyToken, app.KeyExpiresAt, app.KeyUserID, app.KeyUserType, app.KeyUser} {
		if _, ok := kv[k]; ok {
			t.Fatalf("key %s should have been purged: %v", k, kv)
		}
	}
	if kv[app.KeyLoggedIn] != "false" {
		t.Fatalf("isLoggedIn should read false, got %v", kv)
	}
	if auth.IsAdmin() {
		t.Fatalf("identity is gone after purge")
	}
}

func TestLogin_ExpiryFallsBackToJWTClaim(t *testing.T) {
	exp := fixedNow.Add(2 * time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name  string
		token string
		want  time.Time
	}{
		{"jwt exp claim", signed, exp},
		{"opaque token", "opaque", fixedNow.Add(app.DefaultTokenTTL)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeBackend()
			f.login = adminLogin(tc.token, 0)
			store := session.NewMemory()
			auth := app.NewAuthService(f.start(t), store, app.WithClock(clock))
			ctx := context.Background()
			if _, err := auth.Login(ctx, domain.Credentials{}); err != nil {
				t.Fatalf("login: %v", err)
			}
			kv, _ := store.GetAll(ctx, app.KeyExpiresAt)
			if kv[app.KeyExpiresAt] != strconv.FormatInt(tc.want.UnixMilli(), 10) {
				t.Fatalf("expiry %s, want %d", kv[app.KeyExpiresAt], tc.want.UnixMilli())
			}
		})
	}
}

func TestLogout_PurgesAndRunsHook(t *testing.T) {
	f := newFakeBackend()
	f.login = adminLogin("admin-token", 3600)
	store := session.NewMemory()
	called := false
	auth := app.NewAuthService(f.start(t), store, app.WithClock(clock), app.WithLogoutHook(func() { called = true }))
	ctx := context.Background()

	if _, err := auth.Login(ctx, domain.Credentials{}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !called {
		t.Fatalf("logout hook not called")
	}
	if auth.IsLoggedIn(ctx) || auth.IsAdmin() {
		t.Fatalf("session should be gone")
	}
	kv, _ := store.GetAll(ctx, app.KeyToken)
	if len(kv) != 0 {
		t.Fatalf("token should be purged, got %v", kv)
	}
}

func TestUnauthorizedResponseInvalidatesSession(t *testing.T) {
	store := session.NewMemory()
	ctx := context.Background()

	var auth *app.AuthService
	expired := statusServerWith(t, 401, `{"detail":"Token expired"}`,
		vayada.WithTokenSource(vayada.TokenFunc(func(ctx context.Context) (string, bool) { return auth.Token(ctx) })),
		vayada.WithUnauthorizedHook(func() { auth.Invalidate() }),
	)
	auth = app.NewAuthService(expired, store, app.WithClock(clock))
	_ = store.SetAll(ctx, map[string]string{
		app.KeyToken:     "admin-token",
		app.KeyExpiresAt: strconv.FormatInt(fixedNow.Add(time.Hour).UnixMilli(), 10),
		app.KeyUserType:  "admin",
	})
	if err := auth.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	_, err := auth.CurrentUser(ctx)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
	if got := app.ErrorMessage(err, ""); got != app.MsgSessionExpired {
		t.Fatalf("unexpected message %q", got)
	}
	if auth.IsLoggedIn(ctx) {
		t.Fatalf("401 must invalidate the session")
	}
	if _, err := auth.CurrentUser(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	store := session.NewMemory()
	ctx := context.Background()

	var auth *app.AuthService
	denied := statusServerWith(t, 401, `{"detail":"Incorrect email or password"}`,
		vayada.WithTokenSource(vayada.TokenFunc(func(ctx context.Context) (string, bool) { return auth.Token(ctx) })),
		vayada.WithUnauthorizedHook(func() { auth.Invalidate() }),
	)
	auth = app.NewAuthService(denied, store, app.WithClock(clock))
	_ = store.SetAll(ctx, map[string]string{
		app.KeyToken:     "admin-token",
		app.KeyExpiresAt: strconv.FormatInt(fixedNow.Add(time.Hour).UnixMilli(), 10),
		app.KeyUserType:  "admin",
	})
	if err := auth.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	_, err := auth.Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "typo"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
	if !auth.IsLoggedIn(ctx) {
		t.Fatalf("a rejected password must not end the current session")
	}
	if kv, _ := store.GetAll(ctx, app.KeyToken); kv[app.KeyToken] != "admin-token" {
		t.Fatalf("stored token changed: %v", kv)
	}
}
