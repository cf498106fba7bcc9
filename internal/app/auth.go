package app

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"vayada_admin/internal/domain"
)

// Persisted session keys.
const (
	KeyToken      = "access_token"
	KeyExpiresAt  = "token_expires_at" // epoch milliseconds
	KeyUser       = "user"             // JSON Identity
	KeyUserID     = "userId"
	KeyUserEmail  = "userEmail"
	KeyUserName   = "userName"
	KeyUserType   = "userType"
	KeyUserStatus = "userStatus"
	KeyLoggedIn   = "isLoggedIn"
)

// credentialKeys are purged on logout and on expiry; isLoggedIn is rewritten.
var credentialKeys = []string{
	KeyToken, KeyExpiresAt, KeyUser, KeyUserID, KeyUserEmail, KeyUserName, KeyUserType, KeyUserStatus,
}

var sessionKeys = append(append([]string{}, credentialKeys...), KeyLoggedIn)

// DefaultTokenTTL applies when neither expires_in nor the JWT exp claim is usable.
const DefaultTokenTTL = 24 * time.Hour

type AuthOption func(*AuthService)

func WithClock(now func() time.Time) AuthOption { return func(a *AuthService) { a.now = now } }

// WithLogoutHook runs after Logout has purged the session.
func WithLogoutHook(f func()) AuthOption { return func(a *AuthService) { a.onLogout = f } }

// AuthService owns the admin session. Predicates read the in-memory copy
// loaded by Hydrate; writes go through to the store.
type AuthService struct {
	api      domain.Backend
	store    domain.SessionStore
	now      func() time.Time
	onLogout func()

	mu    sync.RWMutex
	state map[string]string
}

func NewAuthService(api domain.Backend, store domain.SessionStore, opts ...AuthOption) *AuthService {
	a := &AuthService{api: api, store: store, now: time.Now, state: map[string]string{}}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Hydrate loads the persisted session into memory.
func (a *AuthService) Hydrate(ctx context.Context) error {
	kv, err := a.store.GetAll(ctx, sessionKeys...)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.state = kv
	a.mu.Unlock()
	return nil
}

// Teardown removes every session key, including isLoggedIn.
func (a *AuthService) Teardown(ctx context.Context) error {
	a.mu.Lock()
	a.state = map[string]string{}
	a.mu.Unlock()
	return a.store.Delete(ctx, sessionKeys...)
}

func (a *AuthService) Login(ctx context.Context, c domain.Credentials) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := a.api.PostPublic(ctx, "/auth/login", c, &resp); err != nil {
		return domain.LoginResponse{}, err
	}
	if resp.Type != domain.RoleAdmin {
		log.Warn().Str("email", resp.Email).Str("type", string(resp.Type)).Msg("non-admin login rejected")
		return domain.LoginResponse{}, domain.ErrNotAdmin
	}
	if resp.AccessToken == "" {
		return domain.LoginResponse{}, errors.New("login response carried no access token")
	}

	id := domain.Identity{ID: resp.ID, Email: resp.Email, Name: resp.Name, Type: resp.Type, Status: resp.Status}
	idJSON, err := json.Marshal(id)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	expires := a.expiry(resp.AccessToken, resp.ExpiresIn)
	kv := map[string]string{
		KeyToken:      resp.AccessToken,
		KeyExpiresAt:  strconv.FormatInt(expires.UnixMilli(), 10),
		KeyUser:       string(idJSON),
		KeyUserID:     id.ID,
		KeyUserEmail:  id.Email,
		KeyUserName:   id.Name,
		KeyUserType:   string(id.Type),
		KeyUserStatus: string(id.Status),
		KeyLoggedIn:   "true",
	}
	if err := a.store.SetAll(ctx, kv); err != nil {
		return domain.LoginResponse{}, err
	}
	a.mu.Lock()
	a.state = kv
	a.mu.Unlock()
	return resp, nil
}

func (a *AuthService) expiry(token string, expiresIn int64) time.Time {
	now := a.now()
	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second)
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return now.Add(DefaultTokenTTL)
}

// Logout purges the session and runs the logout hook.
func (a *AuthService) Logout(ctx context.Context) error {
	err := a.purge(ctx)
	if a.onLogout != nil {
		a.onLogout()
	}
	return err
}

// Invalidate purges the session after the backend rejected the token.
func (a *AuthService) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.purge(ctx); err != nil {
		log.Warn().Err(err).Msg("session purge failed")
	}
}

func (a *AuthService) purge(ctx context.Context) error {
	a.mu.Lock()
	a.state = map[string]string{KeyLoggedIn: "false"}
	a.mu.Unlock()
	if err := a.store.Delete(ctx, credentialKeys...); err != nil {
		return err
	}
	return a.store.SetAll(ctx, map[string]string{KeyLoggedIn: "false"})
}

// IsLoggedIn reports whether an unexpired token is held. An expired token is
// purged as a side effect.
func (a *AuthService) IsLoggedIn(ctx context.Context) bool {
	_, ok := a.Token(ctx)
	return ok
}

// IsAdmin looks only at the persisted role, not at token validity.
func (a *AuthService) IsAdmin() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state[KeyUserType] == string(domain.RoleAdmin)
}

// Token implements the client's token source.
func (a *AuthService) Token(ctx context.Context) (string, bool) {
	a.mu.RLock()
	tok, exp := a.state[KeyToken], a.state[KeyExpiresAt]
	a.mu.RUnlock()
	if tok == "" || exp == "" {
		return "", false
	}
	ms, err := strconv.ParseInt(exp, 10, 64)
	if err == nil && a.now().UnixMilli() < ms {
		return tok, true
	}
	if err := a.purge(ctx); err != nil {
		log.Warn().Err(err).Msg("expired session purge failed")
	}
	return "", false
}

// Identity returns the persisted identity, if any.
func (a *AuthService) Identity() (domain.Identity, bool) {
	a.mu.RLock()
	raw := a.state[KeyUser]
	a.mu.RUnlock()
	if raw == "" {
		return domain.Identity{}, false
	}
	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return domain.Identity{}, false
	}
	return id, true
}

// Actor names the admin for audit entries.
func (a *AuthService) Actor() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state[KeyUserEmail]
}

// CurrentUser asks the backend who the token belongs to.
func (a *AuthService) CurrentUser(ctx context.Context) (domain.LoginResponse, error) {
	if !a.IsLoggedIn(ctx) {
		return domain.LoginResponse{}, domain.ErrNoSession
	}
	var out domain.LoginResponse
	if err := a.api.Get(ctx, "/auth/me", nil, &out); err != nil {
		return domain.LoginResponse{}, err
	}
	return out, nil
}
