package domain

import (
	"context"
	"net/url"
	"time"
)

// Backend is the REST surface of the marketplace API. Paths are relative to
// the configured base URL.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	// GetPublic never attaches a bearer token.
	GetPublic(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	// PostPublic is Post without credentials; a 401 it receives does not end the session.
	PostPublic(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// SessionStore is the persisted key/value area holding the session token and
// identity (the browser-local-storage equivalent).
type SessionStore interface {
	GetAll(ctx context.Context, keys ...string) (map[string]string, error)
	// SetAll writes every pair as one unit.
	SetAll(ctx context.Context, kv map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type AuditLog interface {
	Record(ctx context.Context, e AuditEntry) error
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)
}

type AuditEntry struct {
	ID       int64
	Actor    string // admin email
	Action   string // e.g. user.status
	TargetID string
	Detail   string
	At       time.Time
}

// ---- queries & pages ----

type UsersQuery struct {
	Type     Role
	Status   UserStatus
	Search   string
	Page     int
	PageSize int
}

type UsersPage struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

type ListingsQuery struct {
	Status   ListingStatus
	Category string
	Page     int
	PageSize int
}

type ListingsPage struct {
	Listings   []Listing `json:"listings"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

type CollaborationsQuery struct {
	Page     int
	PageSize int
	Status   CollaborationStatus
	Search   string
}

type CollaborationsPage struct {
	Collaborations []Collaboration `json:"collaborations"`
	Total          int             `json:"total"`
}

// ---- requests & responses ----

type CreateUserRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Type           Role            `json:"type"`
	Status         UserStatus      `json:"status,omitempty"`
	CreatorProfile *CreatorProfile `json:"creator_profile,omitempty"`
	HotelProfile   *HotelProfile   `json:"hotel_profile,omitempty"`
}

type CreateUserResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type UpdateUserRequest struct {
	Name           *string         `json:"name,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Status         *UserStatus     `json:"status,omitempty"`
	CreatorProfile *CreatorProfile `json:"creator_profile,omitempty"`
	HotelProfile   *HotelProfile   `json:"hotel_profile,omitempty"`
}

type StatusChange struct {
	Message   string     `json:"message"`
	UserID    string     `json:"user_id"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Type        Role       `json:"type"`
	Status      UserStatus `json:"status"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
	Message     string     `json:"message"`
}

type DashboardStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Verified  int `json:"verified"`
	Rejected  int `json:"rejected"`
	Suspended int `json:"suspended"`
}
